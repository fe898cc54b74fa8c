package main

import "multipiste/cmd"

func main() {
	cmd.Execute()
}
