package main

import (
	"fmt"
	"os"

	"github.com/soyeahso/voli/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "voli:", err)
		os.Exit(1)
	}
}
