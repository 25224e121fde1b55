package main

import (
	"os"

	"github.com/oksasatya/notekeeper/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
