package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/16880444c/V4/internal/model"
)

func newScopesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "scopes",
		Short: "List scopes and whether each can be answered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := opts.library()
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)

			scopes := make([]model.ScopeInfo, 0, len(lib.Catalog().Scopes))
			for _, sc := range lib.Catalog().Scopes {
				missing := lib.Missing(ctx, sc)
				scopes = append(scopes, model.ScopeInfo{
					Name:      sc.Name,
					Title:     sc.Title,
					Family:    sc.Family,
					Sets:      sc.Sets,
					Available: len(missing) == 0,
					Missing:   missing,
				})
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(scopes)
			}

			for _, sc := range scopes {
				if sc.Available {
					color.New(color.FgGreen).Fprint(out, "available   ")
				} else {
					color.New(color.FgRed).Fprint(out, "unavailable ")
				}
				fmt.Fprintf(out, "%-28s %s [%s]", sc.Name, sc.Title, strings.Join(sc.Sets, ", "))
				if len(sc.Missing) > 0 {
					fmt.Fprintf(out, " missing: %s", strings.Join(sc.Missing, ", "))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}
