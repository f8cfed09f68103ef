package main

import "github.com/soqlgen/soqlgen/cmd"

func main() {
	cmd.Execute()
}
