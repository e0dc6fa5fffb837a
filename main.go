package main

import "github.com/Alijeyrad/scheduleease/cmd"

func main() {
	cmd.Execute()
}
