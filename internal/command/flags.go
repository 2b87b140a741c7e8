package command

import (
	"strings"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/jonwraymond/breedfetch/internal/config"
)

// NewConfigFlag constructs the root --config flag. The path is also
// pre-scanned from the raw arguments by configPath, since the other flags
// need it while they are being built.
func NewConfigFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Usage:   "path to the breedfetch.yaml config file",
		Sources: cli.NewValueSourceChain(cli.EnvVar(config.EnvPath)),
	}
}

// NewCatalogFlags constructs the flags shared by every command that talks to
// the catalog. Defaults come from cfg, so flag and environment values
// override the file.
func NewCatalogFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "catalog-url",
			Usage:   "breed catalog API root",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BREEDFETCH_CATALOG_URL")),
			Value:   cfg.Catalog.BaseURL,
		},
		&cli.StringFlag{
			Name:        "token",
			Usage:       "bearer token for the catalog (supports secretref:)",
			Sources:     cli.NewValueSourceChain(cli.EnvVar("BREEDFETCH_CATALOG_TOKEN")),
			Value:       cfg.Catalog.Token,
			HideDefault: true,
		},
		&cli.BoolFlag{
			Name:  "no-fallback",
			Usage: "report catalog failures as not found instead of using the fallback table",
			Value: cfg.Catalog.DisableFallback,
		},
		&cli.BoolFlag{
			Name:  "single-flight",
			Usage: "collapse concurrent lookups of the same breed into one catalog call",
			Value: cfg.Cache.SingleFlight,
		},
	}
}

// NewOutputFlag constructs the --output flag for command ns. Values not
// given on the command line are read from "<ns>.output" or "output" in the
// config file.
func NewOutputFlag(ns string, cfg *config.Config) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format (text|json)",
		Sources: cli.NewValueSourceChain(
			yaml.YAML(ns+".output", altsrc.StringSourcer(cfg.Source)),
			yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
		),
		Value: "text",
		Validator: func(value string) error {
			return FlagValidators(value, OutputValidator)
		},
	}
}

// applyCatalogFlags copies the catalog flag values into cfg.
func applyCatalogFlags(cmd *cli.Command, cfg *config.Config) {
	cfg.Catalog.BaseURL = cmd.String("catalog-url")
	cfg.Catalog.Token = cmd.String("token")
	cfg.Catalog.DisableFallback = cmd.Bool("no-fallback")
	cfg.Cache.SingleFlight = cmd.Bool("single-flight")
}

// configPath returns the --config value from raw arguments, or "".
func configPath(args []string) string {
	for i, a := range args {
		if a == "--" {
			break
		}
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			return v
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
