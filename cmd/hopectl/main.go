package main

import "github.com/vcscsvcscs/hope/apps/backend/cmd/hopectl/command"

func main() {
	command.Execute()
}
