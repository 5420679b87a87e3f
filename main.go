package main

import "github.com/agentic-research/jsxz/cmd"

func main() {
	cmd.Execute()
}
