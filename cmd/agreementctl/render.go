package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/16880444c/V4/internal/document"
	"github.com/16880444c/V4/internal/service"
)

func newRenderCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "render <scope>",
		Short: "Print the agreement text a scope sends to the model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := opts.library()
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)

			scope, ok := lib.Catalog().Scope(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", service.ErrUnknownScope, args[0])
			}

			docs := make(map[string]*document.Mapping, len(scope.Sets))
			for _, name := range scope.Sets {
				docs[name] = lib.Document(ctx, name)
			}

			text, err := service.NewAssembler(lib.Catalog(), 0).Render(scope, docs)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}
}
