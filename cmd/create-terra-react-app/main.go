package main

import (
	"os"

	"github.com/brandonbloom/create-terra-react-app/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
