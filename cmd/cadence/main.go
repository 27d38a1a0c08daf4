package main

import "github.com/emiliopalmerini/cadence/internal/cli"

func main() {
	cli.Execute()
}
