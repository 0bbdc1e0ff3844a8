package main

import (
	"os"

	"github.com/voidrpg/void/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
