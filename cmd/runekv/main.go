package main

import "github.com/ssargent/runekv/cmd/runekv/cmd"

func main() {
	cmd.Execute()
}
