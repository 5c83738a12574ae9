package main

import (
	"os"

	"graphqlpal/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
