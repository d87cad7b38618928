package main

import (
	"fmt"

	"github.com/cristianoliveira/flashprefs/cmd"
	tuiapp "github.com/cristianoliveira/flashprefs/internal/tui/app"
	"github.com/spf13/cobra"
)

// NewTUICmd creates the tui command with explicit dependencies.
func NewTUICmd(client tuiapp.Client) *cobra.Command {
	if client == nil {
		panic("NewTUICmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive settings panel",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) (err error) {
			svc, err := client.OpenService()
			if err != nil {
				return err
			}
			defer func() {
				if cerr := svc.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("close settings store: %w", cerr)
				}
			}()
			return client.RunProgram(client.CreateModel(svc))
		},
	}
}

var tuiCmd = NewTUICmd(defaultTUIClient)

func init() {
	cmd.RootCmd.AddCommand(tuiCmd)
}
