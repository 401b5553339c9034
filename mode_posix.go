//go:build !windows

package objtree

const hasPOSIXPerms = true
