package main

import "pagient/cmd/pagient/cmd"

func main() {
	cmd.Execute()
}
