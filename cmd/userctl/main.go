package main

import (
	"fmt"
	"os"

	"github.com/jtessler/userctl/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "userctl: %v\n", err)
		os.Exit(1)
	}
}
