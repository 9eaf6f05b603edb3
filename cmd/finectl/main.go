package main

import (
	"os"

	"github.com/aussiebroadwan/finepay/internal/fines/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
