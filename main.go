package main

import "ghostsets/cmd"

func main() {
	cmd.Execute()
}
