package main

import (
	"fmt"
	"os"

	"github.com/skiffworks/skiff/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
