package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/16880444c/V4/internal/agreement"
	"github.com/16880444c/V4/internal/config"
	"github.com/16880444c/V4/internal/loader"
	"github.com/16880444c/V4/internal/logging"
)

// options are the flags shared by every subcommand.
type options struct {
	dir      string
	catalog  string
	timeout  time.Duration
	maxBytes int64
	verbose  bool
	jsonOut  bool
	fs       afero.Fs
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	opts := &options{fs: fs}

	root := &cobra.Command{
		Use:   "agreementctl",
		Short: "Inspect the collective agreements the assistant answers from.",
		Long: `agreementctl loads the agreement catalog and its document sets exactly the
way the server does, and reports what it found.

Examples:
  agreementctl inspect                 # every document set
  agreementctl inspect bcgeu-local     # one set
  agreementctl scopes                  # which scopes can be answered
  agreementctl render cupe-both        # the text the model would receive`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "error"
			if opts.verbose {
				level = "debug"
			}
			logging.Setup(level, "")
			return nil
		},
	}

	// Flag defaults come from the environment, so read .env first.
	_ = config.LoadEnvFile(".env")

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.dir, "dir", "d", envDefault("AGREEMENTS_DIR", "agreements"), "agreements directory")
	flags.StringVarP(&opts.catalog, "catalog", "c", os.Getenv("CATALOG_FILE"), "catalog YAML file (default: built-in catalog)")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "remote fetch timeout")
	flags.Int64Var(&opts.maxBytes, "max-bytes", 32<<20, "largest accepted agreement file in bytes")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log loader activity to stdout")
	flags.BoolVar(&opts.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(newInspectCmd(opts), newScopesCmd(opts), newRenderCmd(opts))
	return root
}

// library opens the catalog and returns a library over it. Sets load lazily.
func (o *options) library() (*loader.Library, error) {
	catalog, err := agreement.Open(o.fs, o.catalog)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	l := loader.New(afero.NewBasePathFs(o.fs, o.dir), o.timeout, o.maxBytes)
	return loader.NewLibrary(catalog, l), nil
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
