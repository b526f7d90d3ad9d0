package main

import "github.com/alfakih7/nova-cli-agent/internal/cli"

func main() {
	cli.Execute()
}
