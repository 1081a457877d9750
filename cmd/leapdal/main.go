// Package main provides the leapdal command-line interface.
package main

import "github.com/leapstack-labs/leapdal/internal/cli"

func main() {
	cli.Execute()
}
