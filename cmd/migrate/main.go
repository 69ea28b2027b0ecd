package main

import "github.com/questbot/questbot/cmd"

func main() {
	cmd.Execute()
}
