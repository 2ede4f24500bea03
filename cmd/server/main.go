package main

import "github.com/eventbook/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
