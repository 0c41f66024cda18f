package main

import (
	"os"

	"gh-labeler/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
