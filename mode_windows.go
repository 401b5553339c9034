package objtree

// Windows reports synthesized permission bits that carry no executable information.
const hasPOSIXPerms = false
