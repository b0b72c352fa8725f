package main

import (
	"fmt"
	"os"

	"github.com/eshaffer321/growthplan-backend/internal/cli"
)

func main() {
	flags, err := cli.ParseServeFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	cfg := cli.LoadConfig(flags.CommonFlags)
	if err := cli.RunServe(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
