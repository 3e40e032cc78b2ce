// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/flowhub/locale"
	"github.com/danielhkuo/flowhub/middleware"
	"github.com/danielhkuo/flowhub/models"
)

func (a *App) importCmd() *cobra.Command {
	var lines bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the roster from a CSV or text file (- reads stdin)",
		Long: `Replace the roster with the names in FILE.

By default FILE is comma-separated and the first column holds the name. A
first row reading "name" or "姓名" is treated as a header. With --lines every
non-blank line is one name. Use - to read from standard input.`,
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().BoolVar(&lines, "lines", false, "One name per line instead of CSV")

	cmd.RunE = middleware.WithLogging(a.Logger, func(cmd *cobra.Command, args []string) error {
		var r io.Reader
		if args[0] == "-" {
			r = cmd.InOrStdin()
		} else {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open roster: %w", err)
			}
			defer f.Close()
			r = f
		}

		format := models.FormatDelimited
		if lines {
			format = models.FormatLines
		}
		n, err := a.session.Import(cmd.Context(), r, format)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, a.printer.Sprintf(locale.KeyRosterImported, n))
		if dups := a.session.Duplicates(); len(dups) > 0 {
			fmt.Fprintln(out, a.printer.Sprintf(locale.KeyRosterSummary, n, len(dups)))
		}
		return nil
	})
	return cmd
}

func (a *App) listCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the roster and flag repeated names",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the roster as JSON")

	cmd.RunE = middleware.WithLogging(a.Logger, func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		r := a.session.Roster()
		if asJSON {
			return middleware.JSONResponse(out, r)
		}
		if len(r) == 0 {
			fmt.Fprintln(out, a.printer.Sprintf(locale.KeyRosterEmpty))
			return nil
		}

		counts := a.session.NameCounts()
		tag := a.printer.Sprintf(locale.KeyRosterDuplicate)
		for i, p := range r {
			if counts[p.Name] > 1 {
				fmt.Fprintf(out, "%3d. %s [%s]\n", i+1, p.Name, tag)
				continue
			}
			fmt.Fprintf(out, "%3d. %s\n", i+1, p.Name)
		}
		fmt.Fprintln(out, a.printer.Sprintf(locale.KeyRosterSummary, len(r), len(a.session.Duplicates())))
		return nil
	})
	return cmd
}

func (a *App) dedupeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Remove repeated names, keeping the first of each",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = middleware.WithLogging(a.Logger, func(cmd *cobra.Command, args []string) error {
		removed, err := a.session.Dedupe(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.printer.Sprintf(locale.KeyRosterDeduped, removed))
		return nil
	})
	return cmd
}

func (a *App) clearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the roster",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = middleware.WithLogging(a.Logger, func(cmd *cobra.Command, args []string) error {
		if err := a.session.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.printer.Sprintf(locale.KeyRosterEmpty))
		return nil
	})
	return cmd
}
