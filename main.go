package main

import "github.com/ragfw/ragfw/cmd/ragfw"

func main() { ragfw.Execute() }
