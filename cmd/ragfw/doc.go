// Package ragfw provides the command-line interface for the ragfw content
// firewall. It configures subcommands (query, index, graph, audit, serve,
// etc.), parses flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/ragfw/ragfw/cmd/ragfw"
//	func main() { ragfw.Execute() }
package ragfw
