// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

// Package main provides the CLI entry point for appmod.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/janderssonse/appmod/internal/cli"
	"github.com/janderssonse/appmod/internal/domain"
)

func main() {
	os.Exit(run())
}

func run() int {
	app := cli.NewCLI()

	if err := app.Run(context.Background(), os.Args); err != nil {
		exitErr := &domain.ExitError{}
		if errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "%s\n", exitErr.Message)

			return exitErr.Code
		}

		fmt.Fprintf(os.Stderr, "Unexpected error: %v\n", err)

		return domain.ExitGeneralError
	}

	return domain.ExitSuccess
}
