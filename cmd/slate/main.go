package main

import (
	"os"

	"github.com/slatelang/go-slate/cmd/slate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
