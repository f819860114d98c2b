package main

import (
	"os"

	"github.com/escala-app/escala/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
