package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mchmarny/ppinet/pkg/data"
	urfave "github.com/urfave/cli/v3"
)

const (
	limitFlag = "limit"
	idFlag    = "id"
	forceFlag = "force"

	defaultHistoryLimit = 20
)

func newHistoryCmd() *urfave.Command {
	return &urfave.Command{
		Name:  "history",
		Usage: "Inspect rankings recorded with --save",
		Commands: []*urfave.Command{
			{
				Name:  "list",
				Usage: "List recorded runs, newest first",
				Flags: []urfave.Flag{
					&urfave.IntFlag{
						Name:  limitFlag,
						Usage: "Maximum number of runs to list",
						Value: defaultHistoryLimit,
					},
				},
				Action: cmdHistoryList,
			},
			{
				Name:  "show",
				Usage: "Print a recorded run with its entries",
				Flags: []urfave.Flag{
					&urfave.StringFlag{
						Name:     idFlag,
						Usage:    "Run ID",
						Required: true,
					},
				},
				Action: cmdHistoryShow,
			},
			{
				Name:  "clear",
				Usage: "Delete all recorded runs",
				Flags: []urfave.Flag{
					&urfave.BoolFlag{
						Name:  forceFlag,
						Usage: "Do not ask for confirmation",
					},
				},
				Action: cmdHistoryClear,
			},
		},
	}
}

func cmdHistoryList(_ context.Context, cmd *urfave.Command) error {
	runs, err := data.ListRuns(getConfig(cmd).DB, cmd.Int(limitFlag))
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	return encode(cmd, runs)
}

func cmdHistoryShow(_ context.Context, cmd *urfave.Command) error {
	id := cmd.String(idFlag)
	r, err := data.GetRun(getConfig(cmd).DB, id)
	if err != nil {
		return fmt.Errorf("getting run: %w", err)
	}
	if r == nil {
		return fmt.Errorf("run not found: %s", id)
	}
	return encode(cmd, r)
}

func cmdHistoryClear(_ context.Context, cmd *urfave.Command) error {
	cfg := getConfig(cmd)

	if !cmd.Bool(forceFlag) {
		fmt.Fprintf(writer(cmd), "This will permanently delete all runs in %s\n", cfg.DBPath)
		fmt.Fprint(writer(cmd), "Are you sure? [y/N]: ")

		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Fprintln(writer(cmd), "Aborted.")
			return nil
		}
	}

	n, err := data.DeleteRuns(cfg.DB)
	if err != nil {
		return fmt.Errorf("deleting runs: %w", err)
	}

	slog.Info("history cleared", "path", cfg.DBPath, "runs", n)
	return nil
}
