package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"tracksplit/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(services.ExitStatus(err))
	}
}
