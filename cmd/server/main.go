package main

import "tooling-spend-tracker/internal/cli"

func main() {
	cli.Execute()
}
