package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/16880444c/V4/internal/agreement"
	"github.com/16880444c/V4/internal/inspect"
)

func newInspectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [set...]",
		Short: "Load document sets and report discrepancies",
		Long: `Load each named document set (all sets when none are named) and report its
source, sections, failed fragments and sections defined by more than one
fragment. Exits non-zero when any set has a problem.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := opts.library()
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)

			sets := lib.Catalog().Sets
			if len(args) > 0 {
				sets = make([]agreement.Set, 0, len(args))
				for _, name := range args {
					set, ok := lib.Catalog().Set(name)
					if !ok {
						return fmt.Errorf("unknown document set %q", name)
					}
					sets = append(sets, set)
				}
			}

			reports := make([]inspect.Report, 0, len(sets))
			for _, set := range sets {
				res, err := lib.Result(ctx, set.Name)
				if err != nil {
					return err
				}
				reports = append(reports, inspect.Inspect(set, res))
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports); err != nil {
					return err
				}
			} else {
				for _, rep := range reports {
					printReport(out, rep)
				}
			}

			failing := 0
			for _, rep := range reports {
				if !rep.OK() {
					failing++
				}
			}
			if failing > 0 {
				return fmt.Errorf("%d of %d document sets have problems", failing, len(reports))
			}
			return nil
		},
	}
}

func printReport(w io.Writer, rep inspect.Report) {
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	red := color.New(color.FgRed, color.Bold)

	switch {
	case !rep.Present:
		red.Fprint(w, "MISSING ")
	case rep.OK():
		green.Fprint(w, "OK      ")
	default:
		yellow.Fprint(w, "WARN    ")
	}
	fmt.Fprintf(w, "%s (%s)\n", rep.Set, rep.Label)

	if rep.Present {
		fmt.Fprintf(w, "  source:   %s\n", rep.Source)
		fmt.Fprintf(w, "  sections: %d, leaves: %d\n", len(rep.Sections), rep.Leaves)
	}
	if rep.FallbackErr != "" {
		fmt.Fprintf(w, "  fallback: %s\n", rep.FallbackErr)
	}
	if rep.RemoteErr != "" {
		fmt.Fprintf(w, "  remote:   %s\n", rep.RemoteErr)
	}
	for _, p := range rep.Problems() {
		fmt.Fprintf(w, "  - %s\n", p)
	}
	if len(rep.Unexpected) > 0 {
		fmt.Fprintf(w, "  unexpected sections: %v\n", rep.Unexpected)
	}
}
