package main

import (
	"os"

	"github.com/wallacegibbon/skillclaw/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
