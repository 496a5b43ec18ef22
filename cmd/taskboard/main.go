// Package main provides the taskboard CLI.
package main

import "github.com/mesh-intelligence/taskboard/internal/cli"

func main() {
	cli.Execute()
}
