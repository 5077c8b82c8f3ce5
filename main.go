package main

import "github.com/lepinkainen/crosspass/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
