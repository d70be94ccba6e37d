package main

import (
	"context"
	"fmt"
	"os"

	"github.com/m3rciful/buylist/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "buylistbot:", err)
		os.Exit(1)
	}
}
