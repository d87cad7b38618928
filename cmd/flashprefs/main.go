package main

import (
	"os"

	"github.com/cristianoliveira/flashprefs/cmd"
	"github.com/cristianoliveira/flashprefs/internal/colors"
	"github.com/cristianoliveira/flashprefs/internal/errors"
)

func main() {
	colors.StructuredDebug("startup", "main", "started", nil, "", nil)
	if err := cmd.Execute(); err != nil {
		colors.StructuredError("startup", "main", "failed", err, "", nil)
		errors.NewDefaultCLIHandler().Handle(err)
		os.Exit(1)
	}
}
