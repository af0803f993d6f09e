package main

import (
	cmd "github.com/kerbaras/opdsreader/cmd/opdsreader"
)

func main() {
	cmd.Execute()
}
