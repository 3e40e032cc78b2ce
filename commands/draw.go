// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/flowhub/locale"
	"github.com/danielhkuo/flowhub/middleware"
	"github.com/danielhkuo/flowhub/raffle"
)

const interactiveHelp = "enter = draw, r = reset, m = switch mode, q = quit"

func (a *App) drawCmd() *cobra.Command {
	var (
		count       int
		allowRepeat bool
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Spin the lucky draw and announce winners",
		Long: `Spin the lucky draw over the roster.

Without --allow-repeat each person wins at most once per run. --interactive
reads commands from standard input: enter draws, r resets, m switches between
unique and repeat mode, q quits.`,
		Args: cobra.NoArgs,
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of winners to draw")
	cmd.Flags().BoolVar(&allowRepeat, "allow-repeat", false, "Allow the same person to win again")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Draw on demand from standard input")

	cmd.RunE = middleware.WithLogging(a.Logger, func(cmd *cobra.Command, args []string) error {
		if count < 1 {
			return fmt.Errorf("count must be at least 1, got %d", count)
		}
		a.session.SetAllowRepeat(allowRepeat)
		if interactive {
			return a.drawInteractive(cmd)
		}

		for range count {
			ok, err := a.drawOnce(cmd)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
		}
		if !allowRepeat {
			fmt.Fprintln(cmd.OutOrStdout(), a.printer.Sprintf(locale.KeyRaffleRemaining, len(a.session.Raffle().Remaining)))
		}
		return nil
	})
	return cmd
}

// drawOnce spins once and prints the outcome. ok is false when nobody is
// left to draw.
func (a *App) drawOnce(cmd *cobra.Command) (ok bool, err error) {
	out := cmd.OutOrStdout()
	winner, err := a.session.Draw(cmd.Context())
	a.clearSpin()
	switch {
	case errors.Is(err, raffle.ErrExhaustedPool) && len(a.session.Roster()) == 0,
		errors.Is(err, raffle.ErrEmptyRoster):
		fmt.Fprintln(out, a.printer.Sprintf(locale.KeyRosterEmpty))
		return false, nil
	case errors.Is(err, raffle.ErrExhaustedPool):
		fmt.Fprintln(out, a.printer.Sprintf(locale.KeyRaffleExhausted))
		return false, nil
	case err != nil:
		return false, err
	}
	fmt.Fprintln(out, a.printer.Sprintf(locale.KeyRaffleWinner, winner))
	return true, nil
}

func (a *App) drawInteractive(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, a.printer.Sprintf(locale.KeyRaffleReady))
	fmt.Fprintln(out, interactiveHelp)

	sc := bufio.NewScanner(cmd.InOrStdin())
	for sc.Scan() {
		switch strings.ToLower(strings.TrimSpace(sc.Text())) {
		case "":
			if _, err := a.drawOnce(cmd); err != nil {
				return err
			}
		case "r":
			a.session.ResetRaffle()
			fmt.Fprintln(out, a.printer.Sprintf(locale.KeyRaffleReset))
		case "m":
			repeat := !a.session.Raffle().AllowRepeat
			a.session.SetAllowRepeat(repeat)
			if repeat {
				fmt.Fprintln(out, a.printer.Sprintf(locale.KeyRaffleRepeat))
			} else {
				fmt.Fprintln(out, a.printer.Sprintf(locale.KeyRaffleUnique))
			}
		case "q":
			return nil
		default:
			fmt.Fprintln(out, interactiveHelp)
		}
	}
	return sc.Err()
}
