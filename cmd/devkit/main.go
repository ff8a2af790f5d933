package main

import (
	"os"

	"github.com/modu-ai/devkit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
