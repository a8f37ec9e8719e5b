package main

import "github.com/blvflag/blvhist/cmd"

func main() {
	cmd.Execute()
}
