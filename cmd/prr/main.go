package main

import (
	"os"

	"github.com/danobi/prr/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
