package main

import "github.com/aweris/objtree/cmd/objtree/cmd"

func main() {
	cmd.Execute()
}
