// Package cmd holds the flashprefs root command. Subcommands register
// themselves from package main.
package cmd

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/flashprefs/internal/colors"
	"github.com/cristianoliveira/flashprefs/internal/config"
	"github.com/cristianoliveira/flashprefs/internal/logging"
	"github.com/cristianoliveira/flashprefs/internal/version"
	"github.com/spf13/cobra"
)

// Flag values applied over the loaded configuration.
var (
	flagDebug   bool
	flagQuiet   bool
	flagBackend string
	flagLang    string
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:           "flashprefs",
	Short:         "Toggle flashing preferences, with a confirmation gate for the dangerous ones.",
	Long:          `Toggle flashing preferences, with a confirmation gate for the dangerous ones.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := logging.ShutdownGlobal(); err != nil {
			colors.Debug(fmt.Sprintf("failed to close log file: %v", err))
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.Version = version.String()
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	RootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug output")
	RootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
	RootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Settings store: toml, sqlite or bolt")
	RootCmd.PersistentFlags().StringVar(&flagLang, "lang", "", "Label language, e.g. en, pt-BR, de")

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != RootCmd {
			fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), helpText(cmd))
	})
}

// setup loads configuration, applies the persistent flags and starts the
// file logger.
func setup(cmd *cobra.Command) error {
	config.Load()

	flags := cmd.Flags()
	if flags.Changed("debug") {
		config.Set("debug", fmt.Sprint(flagDebug))
	}
	if flags.Changed("quiet") {
		config.Set("quiet", fmt.Sprint(flagQuiet))
	}
	if flags.Changed("backend") {
		config.Set("storage_backend", strings.ToLower(flagBackend))
	}
	if flags.Changed("lang") {
		config.Set("language", flagLang)
	}

	colors.SetDebug(config.GetBool("debug", false))
	colors.SetQuiet(config.GetBool("quiet", false))

	if err := logging.InitGlobal(); err != nil {
		colors.Warning(fmt.Sprintf("file logging disabled: %v", err))
	}
	logging.Debug("command started", "command", cmd.CommandPath())
	return nil
}

var commandOrder = []string{
	"settings",
	"events",
	"tui",
	"version",
}

func helpText(cmd *cobra.Command) string {
	var lines []string
	for _, name := range commandOrder {
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				lines = append(lines, fmt.Sprintf("    %-16s %s", c.Name(), c.Short))
				break
			}
		}
	}

	return fmt.Sprintf(`flashprefs %s

%s

USAGE:
    flashprefs [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    --backend NAME  Settings store: toml, sqlite or bolt
    --lang TAG      Label language, e.g. en, pt-BR, de
    --debug         Enable debug output
    -q, --quiet     Suppress informational output
    -h, --help      Show help message
`, version.String(), RootCmd.Short, strings.Join(lines, "\n"))
}
