package command

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/jonwraymond/breedfetch/internal/config"
	"github.com/jonwraymond/breedfetch/secret"
)

// Version is reported by --version. Overridden at link time.
var Version = "dev"

// InitApp loads the configuration named by args (or found in the standard
// locations) and builds the command tree around it. A config file that
// cannot be read is a setup error.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	cfg, err := config.Load(configPath(args))
	if err != nil {
		return nil, err
	}

	app := &cli.Command{
		Name:      "breedfetch",
		Usage:     "Dog breed sub-breed lookups with a memoizing cache",
		Version:   Version,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			NewConfigFlag(),
		},
	}

	app.Commands = append(app.Commands,
		LookupCommandBuilder(cfg),
		ServeCommandBuilder(cfg),
		CheckCommandBuilder(cfg),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}

// prepare applies the catalog flags, resolves secrets and validates cfg,
// then assembles the lookup stack.
func prepare(ctx context.Context, cmd *cli.Command, cfg *config.Config) (*stack, error) {
	applyCatalogFlags(cmd, cfg)

	resolver, err := secret.NewBuiltinResolver(secret.DefaultRegistry)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resolver.Close() }()

	if err := cfg.Resolve(ctx, resolver); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := newStack(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	return st, nil
}
