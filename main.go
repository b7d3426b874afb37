package main

import "github.com/cmmoran/cstsgen/cmd"

func main() {
	cmd.Execute()
}
