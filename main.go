package main

import "expense-approval/cmd"

func main() {
	cmd.Execute()
}
