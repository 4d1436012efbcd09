package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mchmarny/ppinet/pkg/analyzer"
	"github.com/mchmarny/ppinet/pkg/plot"
	urfave "github.com/urfave/cli/v3"
)

const (
	boxFlag    = "box"
	outDirFlag = "out"
	binsFlag   = "bins"
)

func newPlotCmd() *urfave.Command {
	cmds := make([]*urfave.Command, 0, len(analyzer.Distributions))
	for _, d := range analyzer.Distributions {
		cmds = append(cmds, &urfave.Command{
			Name:  string(d),
			Usage: plotLabels[d].Title,
			Flags: []urfave.Flag{
				&urfave.BoolFlag{
					Name:  boxFlag,
					Usage: "Draw a box plot instead of a histogram",
				},
				&urfave.StringFlag{
					Name:  outDirFlag,
					Usage: "Directory for PNG output (default: config plotDir, text on stdout when empty)",
				},
				&urfave.IntFlag{
					Name:  binsFlag,
					Usage: "Histogram bin count (default: config bins)",
				},
			},
			Action: plotAction(d),
		})
	}

	return &urfave.Command{
		Name:     "plot",
		Usage:    "Plot network and score distributions",
		Commands: cmds,
	}
}

// plotLabels holds the axis labels per distribution.
var plotLabels = map[analyzer.Distribution]plot.Options{
	analyzer.DistributionDegree: {
		Title:  "Degree Distribution of PPI Network",
		XLabel: "Number of interacting partners (Degree)",
		YLabel: "Number of proteins",
	},
	analyzer.DistributionAnnotated: {
		Title:  "Distribution of Annotated Protein Count",
		XLabel: "Annotated proteins in the immediate neighborhood",
		YLabel: "Number of proteins",
	},
	analyzer.DistributionHishigaki: {
		Title:  "Hishigaki Score Distribution",
		XLabel: "Hishigaki Score",
		YLabel: "Frequency",
	},
}

func plotAction(d analyzer.Distribution) urfave.ActionFunc {
	return func(ctx context.Context, cmd *urfave.Command) error {
		a, err := loadAnalyzer(ctx, cmd)
		if err != nil {
			return err
		}

		values, err := a.Values(ctx, d)
		if err != nil {
			return err
		}

		cfg := getConfig(cmd).Config
		opts := plotLabels[d]
		opts.Bins = cfg.Bins
		if cmd.IsSet(binsFlag) {
			opts.Bins = cmd.Int(binsFlag)
		}

		dir := cfg.PlotDir
		if cmd.IsSet(outDirFlag) {
			dir = cmd.String(outDirFlag)
		}

		var (
			sink plot.Sink
			png  *plot.PNGSink
		)
		if dir != "" {
			png = plot.NewPNGSink(dir)
			sink = png
		} else {
			sink = plot.NewTextSink(writer(cmd))
		}

		if cmd.Bool(boxFlag) {
			opts.Title = "Box Plot of " + opts.Title
			opts.YLabel = opts.XLabel
			err = sink.BoxPlot(values, opts)
		} else {
			err = sink.Histogram(values, opts)
		}
		if err != nil {
			return fmt.Errorf("plotting %s: %w", d, err)
		}

		if png != nil {
			slog.Info("plot saved", "path", png.LastPath())
		}
		return nil
	}
}
