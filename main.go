package main

import "z3-dashboard/cmd"

func main() {
	cmd.Execute()
}
