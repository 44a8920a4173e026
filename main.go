package main

import "countrypulse/cmd"

func main() {
	cmd.Execute()
}
