package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
	"github.com/KasumiMercury/primind-dose-reminder/internal/service/frequency"
	"github.com/KasumiMercury/primind-dose-reminder/internal/service/gap"
	"github.com/KasumiMercury/primind-dose-reminder/internal/service/timeoption"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	gray  = color.New(color.FgHiBlack).SprintFunc()
)

var errGapViolation = errors.New("gap violation")

func newSlotsCmd() *cobra.Command {
	var timing string

	cmd := &cobra.Command{
		Use:   "slots <frequency>",
		Short: "Show the reminder slots derived from a frequency",
		Example: `  dose-reminder slots "Twice daily" --timing "After food"
  dose-reminder slots 1-1-1 --timing "before meals"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printSlots(cmd.OutOrStdout(), timeoption.NewCatalog(), args[0], timing)
			return nil
		},
	}

	cmd.Flags().StringVar(&timing, "timing", "", "timing instruction, e.g. \"After food\"")
	return cmd
}

func printSlots(w io.Writer, catalog *timeoption.Catalog, freq, timing string) {
	schedule := frequency.Derive(freq, timing)

	fmt.Fprintf(w, "%s %d dose(s) per day\n", bold("Slots:"), schedule.DoseCount)
	for i, label := range schedule.Labels {
		options := catalog.Filtered(label)
		window := ""
		if len(options) > 0 {
			window = fmt.Sprintf("%s to %s", options[0].Label, options[len(options)-1].Label)
		}
		fmt.Fprintf(w, "  %s %s %s\n", cyan(fmt.Sprintf("%d.", i+1)), label, gray(window))
	}
}

func newCheckGapCmd() *cobra.Command {
	var hours float64

	cmd := &cobra.Command{
		Use:     "check-gap <HH:MM>...",
		Short:   "Check that dose times keep the minimum gap",
		Example: `  dose-reminder check-gap 08:00 14:00 22:00 --hours 6`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkGap(cmd.OutOrStdout(), args, hours)
		},
	}

	cmd.Flags().Float64Var(&hours, "hours", domain.DefaultGapHours, "minimum gap between doses in hours")
	return cmd
}

func checkGap(w io.Writer, times []string, hours float64) error {
	if hours <= 0 {
		hours = domain.DefaultGapHours
	}

	err := gap.Validate(times, hours)

	var violation *domain.GapViolation
	switch {
	case err == nil:
		fmt.Fprintf(w, "%s %v keep a %g-hour gap\n", green("OK"), times, hours)
		return nil
	case errors.As(err, &violation):
		pair := fmt.Sprintf("%s and %s", violation.First, violation.Second)
		if violation.WrapAround {
			pair += " (next day)"
		}
		fmt.Fprintf(w, "%s %s are less than %g hours apart\n", red("TOO CLOSE"), pair, hours)
		return errGapViolation
	default:
		return err
	}
}
