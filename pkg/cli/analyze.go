package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mchmarny/ppinet/pkg/analyzer"
	"github.com/mchmarny/ppinet/pkg/data"
	"github.com/mchmarny/ppinet/pkg/report"
	"github.com/mchmarny/ppinet/pkg/scoring"
	"github.com/mchmarny/ppinet/pkg/tabular"
	urfave "github.com/urfave/cli/v3"
)

const (
	proteinFlag = "protein"
	topFlag     = "top"
	saveFlag    = "save"
)

func newProteinFlag() urfave.Flag {
	return &urfave.StringFlag{
		Name:     proteinFlag,
		Aliases:  []string{"p"},
		Usage:    "Protein identifier (case insensitive)",
		Required: true,
	}
}

func newStatsCmd() *urfave.Command {
	return &urfave.Command{
		Name:   "stats",
		Usage:  "Print node, edge and annotation counts",
		Action: cmdStats,
	}
}

func newDegreeCmd() *urfave.Command {
	return &urfave.Command{
		Name:   "degree",
		Usage:  "Print the number of interaction partners of a protein",
		Flags:  []urfave.Flag{newProteinFlag()},
		Action: cmdDegree,
	}
}

func newNeighborsCmd() *urfave.Command {
	return &urfave.Command{
		Name:   "neighbors",
		Usage:  "List the interaction partners of a protein",
		Flags:  []urfave.Flag{newProteinFlag()},
		Action: cmdNeighbors,
	}
}

func newNeighborhoodCmd() *urfave.Command {
	return &urfave.Command{
		Name:   "neighborhood",
		Usage:  "Print the annotated share of a protein's neighborhood",
		Flags:  []urfave.Flag{newProteinFlag()},
		Action: cmdNeighborhood,
	}
}

func newRankCmd(m scoring.Method, usage string) *urfave.Command {
	return &urfave.Command{
		Name:  string(m),
		Usage: usage,
		Flags: []urfave.Flag{
			&urfave.IntFlag{
				Name:    topFlag,
				Aliases: []string{"k"},
				Usage:   "Number of candidates to list (default: config topK)",
			},
			&urfave.BoolFlag{
				Name:  saveFlag,
				Usage: "Record the ranking in the local history",
			},
		},
		Action: rankAction(m),
	}
}

// DegreeResult is the output of the degree command.
type DegreeResult struct {
	Protein string `json:"protein" yaml:"protein"`
	Degree  int    `json:"degree" yaml:"degree"`
}

// NeighborsResult is the output of the neighbors command.
type NeighborsResult struct {
	Protein   string   `json:"protein" yaml:"protein"`
	Neighbors []string `json:"neighbors" yaml:"neighbors"`
}

// RankResult is the output of the ranking commands.
type RankResult struct {
	Method  scoring.Method `json:"method" yaml:"method"`
	K       int            `json:"k" yaml:"k"`
	Entries []report.Entry `json:"entries" yaml:"entries"`
	RunID   string         `json:"run_id,omitempty" yaml:"runID,omitempty"`
}

func cmdStats(ctx context.Context, cmd *urfave.Command) error {
	a, err := loadAnalyzer(ctx, cmd)
	if err != nil {
		return err
	}
	return encode(cmd, a.Stats())
}

func cmdDegree(ctx context.Context, cmd *urfave.Command) error {
	a, err := loadAnalyzer(ctx, cmd)
	if err != nil {
		return err
	}
	p := tabular.Normalize(cmd.String(proteinFlag))
	d, err := a.Degree(p)
	if err != nil {
		return err
	}
	return encode(cmd, &DegreeResult{Protein: p, Degree: d})
}

func cmdNeighbors(ctx context.Context, cmd *urfave.Command) error {
	a, err := loadAnalyzer(ctx, cmd)
	if err != nil {
		return err
	}
	p := tabular.Normalize(cmd.String(proteinFlag))
	n, err := a.Neighbors(p)
	if err != nil {
		return err
	}
	return encode(cmd, &NeighborsResult{Protein: p, Neighbors: n})
}

func cmdNeighborhood(ctx context.Context, cmd *urfave.Command) error {
	a, err := loadAnalyzer(ctx, cmd)
	if err != nil {
		return err
	}
	r, err := a.Ratio(cmd.String(proteinFlag))
	if err != nil {
		return err
	}
	return encode(cmd, r)
}

func rankAction(m scoring.Method) urfave.ActionFunc {
	return func(ctx context.Context, cmd *urfave.Command) error {
		a, err := loadAnalyzer(ctx, cmd)
		if err != nil {
			return err
		}

		k := getConfig(cmd).Config.TopK
		if cmd.IsSet(topFlag) {
			k = cmd.Int(topFlag)
		}

		entries, err := a.Rank(ctx, m, k)
		if err != nil {
			return err
		}

		res := &RankResult{Method: m, K: k, Entries: entries}
		if cmd.Bool(saveFlag) {
			id, err := saveRun(cmd, a, res)
			if err != nil {
				return err
			}
			res.RunID = id
		}
		return encode(cmd, res)
	}
}

func saveRun(cmd *urfave.Command, a *analyzer.Analyzer, res *RankResult) (string, error) {
	s := a.Stats()
	r := &data.Run{
		Method:           string(res.Method),
		PPISource:        a.Sources.PPI,
		AnnotationSource: a.Sources.Annotations,
		Nodes:            s.Nodes,
		Edges:            s.Edges,
		Known:            s.Known,
		TopK:             res.K,
		Entries:          make([]*data.RunEntry, len(res.Entries)),
	}
	for i, e := range res.Entries {
		r.Entries[i] = &data.RunEntry{Protein: e.ID, Score: e.Score}
	}

	if err := data.SaveRun(getConfig(cmd).DB, r); err != nil {
		return "", fmt.Errorf("saving run: %w", err)
	}
	slog.Debug("run saved", "id", r.ID, "method", r.Method)
	return r.ID, nil
}
