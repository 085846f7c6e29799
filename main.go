package main

import "skilltree/cmd"

func main() {
	cmd.Execute()
}
