package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ericbuess/claude-code-docs/internal/cli"
	"github.com/ericbuess/claude-code-docs/internal/installer"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, installer.ErrDeclined) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
