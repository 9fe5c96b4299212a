package main

import "github.com/qri-io/structdiff/cmd/structdiff/cmd"

func main() {
	cmd.Execute()
}
