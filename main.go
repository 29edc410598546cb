package main

import "hundred-minds/pkg/cmd"

func main() {
	cmd.Execute()
}
