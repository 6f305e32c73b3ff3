package main

import "nanodectl/cmd"

func main() {
	cmd.Execute()
}
