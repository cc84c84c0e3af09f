package main

import (
	"os"

	"github.com/efinstitute/sitegate/internal/commands"
)

func main() {
	os.Exit(commands.Execute())
}
