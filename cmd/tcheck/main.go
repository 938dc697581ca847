package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sandeepkv93/tcheck/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "tcheck failed: %v\n", err)
		os.Exit(1)
	}
}
