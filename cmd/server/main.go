package main

import "github.com/seatwise/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
