package main

import "cash-tally/cmd"

func main() {
	cmd.Execute()
}
