package main

import "libraryhub/cmd/libraryctl/command"

func main() {
	command.Execute()
}
