package main

import "github.com/GAURAV130105/attendance-system/cmd"

func main() {
	cmd.Execute()
}
