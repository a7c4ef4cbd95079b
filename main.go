package main

import "sable/cmd"

func main() {
	cmd.Execute()
}
