package main

import (
	"os"

	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
