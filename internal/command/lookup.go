package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/urfave/cli/v3"

	"github.com/jonwraymond/breedfetch/breed"
	"github.com/jonwraymond/breedfetch/internal/config"
)

// LookupResult is the outcome of one name in a lookup run.
type LookupResult struct {
	Breed     string   `json:"breed"`
	SubBreeds []string `json:"sub_breeds"`
	Error     string   `json:"error,omitempty"`
}

// LookupReport is the JSON document printed by lookup --output=json.
type LookupReport struct {
	Results       []LookupResult `json:"results"`
	DelegateCalls int64          `json:"delegate_calls"`
	Entries       int            `json:"entries"`
}

// LookupCommandBuilder builds the lookup command.
func LookupCommandBuilder(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "print the sub-breeds of one or more breeds",
		ArgsUsage: "NAME...",
		Flags:     append(NewCatalogFlags(cfg), NewOutputFlag("lookup", cfg)),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			names := cmd.Args().Slice()
			if len(names) == 0 {
				return fmt.Errorf("%w: at least one breed name is required", ErrMissingArgs)
			}

			st, err := prepare(ctx, cmd, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close(ctx) }()

			report := runLookups(ctx, st, names)
			if cmd.String("output") == "json" {
				return writeLookupJSON(cmd.Root().Writer, report)
			}
			return writeLookupText(cmd.Root().Writer, report)
		},
	}
}

// runLookups resolves names in order through the cache, so repeated names
// are answered without another catalog call.
func runLookups(ctx context.Context, st *stack, names []string) LookupReport {
	report := LookupReport{Results: make([]LookupResult, 0, len(names))}
	for _, name := range names {
		subs, err := st.fetcher.SubBreeds(ctx, breed.NameOf(name))
		r := LookupResult{Breed: name, SubBreeds: subs}
		if err != nil {
			r.SubBreeds = []string{}
			r.Error = err.Error()
		}
		report.Results = append(report.Results, r)
	}
	report.DelegateCalls = st.cache.Calls()
	report.Entries = st.cache.Len()
	return report
}

func writeLookupJSON(w io.Writer, report LookupReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeLookupText(w io.Writer, report LookupReport) error {
	rows := make([][]string, 0, len(report.Results))
	for _, r := range report.Results {
		subs := strings.Join(r.SubBreeds, ", ")
		switch {
		case r.Error != "":
			subs = "(not found)"
		case subs == "":
			subs = "(none)"
		}
		rows = append(rows, []string{r.Breed, subs})
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		Headers("BREED", "SUB-BREEDS").
		Rows(rows...)

	_, err := fmt.Fprintf(w, "%s\n\n%s %s, %s %s, %s %s cached\n",
		t,
		humanize.Comma(int64(len(report.Results))), english.PluralWord(len(report.Results), "lookup", ""),
		humanize.Comma(report.DelegateCalls), english.PluralWord(int(report.DelegateCalls), "delegate call", ""),
		humanize.Comma(int64(report.Entries)), english.PluralWord(report.Entries, "breed", ""),
	)
	return err
}
