package main

import (
	"context"
	"fmt"
	"os"

	"github.com/0x1NotMe/claude-workspace-tools/internal/cli"
)

func main() {
	root := cli.NewRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
