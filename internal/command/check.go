package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/jonwraymond/breedfetch/health"
	"github.com/jonwraymond/breedfetch/internal/config"
)

// ErrUnhealthy is returned by check when any component is unhealthy.
var ErrUnhealthy = errors.New("unhealthy")

// CheckCommandBuilder builds the check command.
func CheckCommandBuilder(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "run the health checks once and print the result",
		Flags: append(NewCatalogFlags(cfg), NewOutputFlag("check", cfg)),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			st, err := prepare(ctx, cmd, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close(ctx) }()

			report := st.health.Run(ctx)

			if cmd.String("output") == "json" {
				enc := json.NewEncoder(cmd.Root().Writer)
				enc.SetIndent("", "  ")
				if err := enc.Encode(health.NewHealthResponse(report)); err != nil {
					return err
				}
			} else if err := writeCheckText(cmd.Root().Writer, report); err != nil {
				return err
			}

			if report.Status == health.StatusUnhealthy {
				return fmt.Errorf("%w: %s", ErrUnhealthy, strings.Join(failing(report), ", "))
			}
			return nil
		},
	}
}

func writeCheckText(w io.Writer, report health.Report) error {
	names := make([]string, 0, len(report.Results))
	for name := range report.Results {
		names = append(names, name)
	}
	slices.Sort(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		r := report.Results[name]
		msg := r.Message
		if heap, ok := r.Details["heap_alloc"].(uint64); ok {
			msg += " (heap " + humanize.Bytes(heap) + ")"
		}
		if r.Error != nil {
			msg += ": " + r.Error.Error()
		}
		rows = append(rows, []string{name, r.Status.String(), msg})
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		Headers("CHECK", "STATUS", "MESSAGE").
		Rows(rows...)

	_, err := fmt.Fprintf(w, "%s\n\noverall: %s\n", t, report.Status)
	return err
}

func failing(report health.Report) []string {
	var names []string
	for name, r := range report.Results {
		if r.Status == health.StatusUnhealthy {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
