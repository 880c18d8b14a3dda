package main

import "github.com/stafftrack/hrm-backend/cmd"

func main() {
	cmd.Execute()
}
