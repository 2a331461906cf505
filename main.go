package main

import "github.com/chriserin/stepmatch/cmd"

func main() {
	cmd.Execute()
}
