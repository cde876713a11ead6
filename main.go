package main

import "github.com/johnpc/fit-cli/cmd/fit"

func main() {
	fit.Execute()
}
