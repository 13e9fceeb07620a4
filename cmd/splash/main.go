package main

import (
	"context"
	"os"

	"github.com/agbru/splashseq/internal/app"
	apperrors "github.com/agbru/splashseq/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(0)
		}
		// ParseConfig already reported the error.
		os.Exit(apperrors.ExitCodeFor(err, nil))
	}

	exitCode := application.Run(context.Background(), os.Stdout)
	os.Exit(exitCode)
}
