package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cristianoliveira/flashprefs/cmd"
	"github.com/cristianoliveira/flashprefs/internal/colors"
	"github.com/cristianoliveira/flashprefs/internal/formatter"
	"github.com/cristianoliveira/flashprefs/internal/labels"
	"github.com/spf13/cobra"
)

const (
	settingsCommandLong = `Show and change flashing preferences.

USAGE:
    flashprefs settings <subcommand>

SUBCOMMANDS:
    show             List every visible setting with its value
    get <name>       Print one value
    toggle <name>    Flip one value, confirming dangerous changes
    reset            Restore every default

EXAMPLES:
    # Turn on trimming
    flashprefs settings toggle trim

    # Enable unsafe mode without the confirmation prompt
    flashprefs settings toggle unsafeMode --yes`
	toggleCommandLong = `Flip one setting and persist it.

Enabling a guarded setting such as unsafeMode asks for confirmation first.
Declining leaves the setting unchanged.

USAGE:
    flashprefs settings toggle <name> [--yes]`
)

// NewSettingsCmd creates the settings command with explicit dependencies.
func NewSettingsCmd(open serviceOpener) *cobra.Command {
	if open == nil {
		panic("NewSettingsCmd: open dependency cannot be nil")
	}

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change flashing preferences",
		Long:  settingsCommandLong,
	}
	settingsCmd.AddCommand(newShowCmd(open), newGetCmd(open), newToggleCmd(open), newResetCmd(open))
	return settingsCmd
}

func newShowCmd(open serviceOpener) *cobra.Command {
	var (
		asJSON bool
		format string
	)
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "List every visible setting",
		Long:  showCommandLong(),
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			var template string
			if format != "" {
				var err error
				if template, err = formatter.ResolveTemplate(formatter.NewPresetRegistry(), format); err != nil {
					return err
				}
			}
			return withService(open, func(svc settingsService) error {
				switch {
				case asJSON:
					return printJSON(c.OutOrStdout(), svc.Snapshot())
				case template != "":
					return printTemplate(c.OutOrStdout(), svc, template)
				}
				return printRows(c.OutOrStdout(), svc)
			})
		},
	}
	showCmd.Flags().BoolVar(&asJSON, "json", false, "Print every value as JSON")
	showCmd.Flags().StringVar(&format, "format", "", "Preset name or {{variable}} template applied to each setting")
	return showCmd
}

func showCommandLong() string {
	var b strings.Builder
	b.WriteString("List every visible setting with its value.\n\nPRESETS:\n")
	for _, p := range formatter.NewPresetRegistry().List() {
		fmt.Fprintf(&b, "    %-12s %s\n", p.Name, p.Description)
	}
	b.WriteString("\nVARIABLES:\n    ")
	b.WriteString(strings.Join(formatter.Variables(), ", "))
	b.WriteString("\n\nEXAMPLES:\n    flashprefs settings show --format env\n    flashprefs settings show --format '{{name}}: {{on-off}}'")
	return b.String()
}

func newGetCmd(open serviceOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Print one setting value",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return withService(open, func(svc settingsService) error {
				v, err := svc.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(c.OutOrStdout(), v)
				return nil
			})
		},
	}
}

func newToggleCmd(open serviceOpener) *cobra.Command {
	var yes bool
	toggleCmd := &cobra.Command{
		Use:   "toggle <name>",
		Short: "Flip one setting",
		Long:  toggleCommandLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return withService(open, func(svc settingsService) error {
				declined := false
				confirm := func(message, confirmLabel string) bool {
					if yes {
						return true
					}
					if nonInteractive() {
						colors.Warning("guarded setting needs --yes when running non-interactively")
						declined = true
						return false
					}
					fmt.Fprintln(c.OutOrStdout(), message)
					ok := promptYesNo(c.InOrStdin(), c.OutOrStdout(), confirmLabel+"?")
					declined = !ok
					return ok
				}
				v, err := svc.Toggle(args[0], confirm)
				if err != nil {
					return err
				}
				if declined {
					colors.Info("Operation cancelled")
					return nil
				}
				fmt.Fprintf(c.OutOrStdout(), "%s: %s\n", args[0], onOff(v))
				return nil
			})
		},
	}
	toggleCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm guarded toggles without asking")
	return toggleCmd
}

func newResetCmd(open serviceOpener) *cobra.Command {
	var force bool
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore every default",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if !force && !nonInteractive() {
				if !promptYesNo(c.InOrStdin(), c.OutOrStdout(), "Are you sure you want to reset all settings to defaults?") {
					colors.Info("Operation cancelled")
					return nil
				}
			}
			return withService(open, func(svc settingsService) error {
				if err := svc.Reset(); err != nil {
					return fmt.Errorf("failed to reset settings: %w", err)
				}
				colors.Success("Settings reset to defaults")
				return nil
			})
		},
	}
	resetCmd.Flags().BoolVar(&force, "force", false, "Reset without confirmation")
	return resetCmd
}

// withService opens the service, runs fn and closes the service.
func withService(open serviceOpener, fn func(settingsService) error) (err error) {
	svc, err := open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := svc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close settings store: %w", cerr)
		}
	}()
	return fn(svc)
}

func printRows(w io.Writer, svc settingsService) error {
	badge := svc.Labels().Message(labels.DangerousBadge)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range svc.Rows() {
		mark := "[ ]"
		if r.Value {
			mark = "[x]"
		}
		extra := ""
		if r.Dangerous {
			extra = "(" + badge + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, r.Name, r.Label, extra)
	}
	return tw.Flush()
}

func printTemplate(w io.Writer, svc settingsService, template string) error {
	engine := formatter.NewTemplateEngine()
	for _, r := range svc.Rows() {
		line, err := engine.Substitute(template, formatter.VariableContext{
			Name:      r.Name,
			Label:     r.Label,
			Value:     r.Value,
			Default:   r.Default,
			Dangerous: r.Dangerous,
			Guarded:   r.Guarded,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

var settingsCmd = NewSettingsCmd(func() (settingsService, error) { return defaultOpener() })

func init() {
	cmd.RootCmd.AddCommand(settingsCmd)
}
