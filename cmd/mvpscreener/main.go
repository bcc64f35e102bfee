package main

import (
	"os"

	"MVPScreener/cmd/mvpscreener/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
