// Package cli implements the ppinet command line.
package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mchmarny/ppinet/pkg/analyzer"
	"github.com/mchmarny/ppinet/pkg/config"
	"github.com/mchmarny/ppinet/pkg/data"
	"github.com/mchmarny/ppinet/pkg/logging"
	"github.com/mchmarny/ppinet/pkg/scoring"
	urfave "github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	appName      = "ppinet"
	appConfigKey = "app-config"
	cacheDirName = "cache"
	envPrefix    = "PPINET_"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""
)

// Global flag names.
const (
	debugFlag       = "debug"
	configDirFlag   = "config"
	formatFlag      = "format"
	ppiFlag         = "ppi"
	annotationsFlag = "annotations"
	delimiterFlag   = "delimiter"
	columnFlag      = "column"
	minScoreFlag    = "min-score"
	headerFlag      = "header"
	workersFlag     = "workers"
	refreshFlag     = "refresh"
)

func globalFlags() []urfave.Flag {
	return []urfave.Flag{
		&urfave.BoolFlag{
			Name:    debugFlag,
			Usage:   "Prints verbose logs (optional, default: false)",
			Sources: urfave.EnvVars(envPrefix + "DEBUG"),
		},
		&urfave.StringFlag{
			Name:    configDirFlag,
			Usage:   "Directory holding config.yaml and the history database (default: $HOME/.ppinet)",
			Sources: urfave.EnvVars(envPrefix + "CONFIG"),
		},
		&urfave.StringFlag{
			Name:  formatFlag,
			Usage: "Output format [json, yaml]",
		},
		&urfave.StringFlag{
			Name:    ppiFlag,
			Usage:   "Interaction file path or URL (protein1, protein2, ..., score)",
			Sources: urfave.EnvVars(envPrefix + "PPI"),
		},
		&urfave.StringFlag{
			Name:    annotationsFlag,
			Aliases: []string{"fn"},
			Usage:   "Function annotation file path or URL",
			Sources: urfave.EnvVars(envPrefix + "ANNOTATIONS"),
		},
		&urfave.StringFlag{
			Name:  delimiterFlag,
			Usage: "Field delimiter of both input files (default: tab)",
		},
		&urfave.IntFlag{
			Name:  columnFlag,
			Usage: "Zero-based protein column of the annotation file (default: 2)",
		},
		&urfave.FloatFlag{
			Name:  minScoreFlag,
			Usage: "Drop interactions scored below this value",
		},
		&urfave.BoolFlag{
			Name:  headerFlag,
			Usage: "Skip the first record of the interaction file",
		},
		&urfave.IntFlag{
			Name:    workersFlag,
			Usage:   "Goroutines used by the neighborhood engine (default: one per CPU)",
			Sources: urfave.EnvVars(envPrefix + "WORKERS"),
		},
		&urfave.BoolFlag{
			Name:  refreshFlag,
			Usage: "Download remote sources again even when cached",
		},
	}
}

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger("info")

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	Dir    string
	Config *config.Config
	Debug  bool
	DBPath string
	DB     *sql.DB
}

func getConfig(cmd *urfave.Command) *appConfig {
	return cmd.Root().Metadata[appConfigKey].(*appConfig)
}

func newApp() *urfave.Command {
	return &urfave.Command{
		Name:                  appName,
		Version:               fmt.Sprintf("%s (%s - %s)", version, commit, date),
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Usage:                 "Protein interaction network neighborhood analyzer",
		Metadata:              map[string]any{},
		Flags:                 globalFlags(),
		Commands: []*urfave.Command{
			newStatsCmd(),
			newDegreeCmd(),
			newNeighborsCmd(),
			newNeighborhoodCmd(),
			newRankCmd(scoring.MethodMajority, "Rank unannotated proteins by annotated neighbor count"),
			newRankCmd(scoring.MethodHishigaki, "Rank unannotated proteins by Hishigaki score"),
			newPlotCmd(),
			newHistoryCmd(),
			newServerCmd(),
		},
		Before: func(ctx context.Context, cmd *urfave.Command) (context.Context, error) {
			if cmd.Bool(debugFlag) {
				logging.SetDefaultCLILogger("debug")
			}

			dir := cmd.String(configDirFlag)
			if dir == "" {
				d, _, err := config.GetOrCreateHomeDir(appName)
				if err != nil {
					return ctx, fmt.Errorf("resolving config dir: %w", err)
				}
				dir = d
			}

			cfg, err := config.ReadOrCreate(dir)
			if err != nil {
				return ctx, fmt.Errorf("reading config: %w", err)
			}

			dbPath := filepath.Join(dir, data.DataFileName)
			if err := data.Init(dbPath); err != nil {
				return ctx, fmt.Errorf("initializing database: %w", err)
			}

			db, err := data.GetDB(dbPath)
			if err != nil {
				return ctx, fmt.Errorf("opening database: %w", err)
			}

			cmd.Root().Metadata[appConfigKey] = &appConfig{
				Dir:    dir,
				Config: cfg,
				Debug:  cmd.Bool(debugFlag),
				DBPath: dbPath,
				DB:     db,
			}
			return ctx, nil
		},
		After: func(_ context.Context, cmd *urfave.Command) error {
			if cfg, ok := cmd.Root().Metadata[appConfigKey].(*appConfig); ok && cfg.DB != nil {
				cfg.DB.Close()
			}
			return nil
		},
	}
}

// loadAnalyzer builds the analyzer from the source flags; flags that were
// set win over config values.
func loadAnalyzer(ctx context.Context, cmd *urfave.Command) (*analyzer.Analyzer, error) {
	cfg := getConfig(cmd)
	src := analyzer.Sources{
		PPI:         cmd.String(ppiFlag),
		Annotations: cmd.String(annotationsFlag),
	}
	if src.PPI == "" || src.Annotations == "" {
		return nil, fmt.Errorf("both --%s and --%s are required", ppiFlag, annotationsFlag)
	}

	column := cfg.Config.AnnotationColumn
	opts := analyzer.Options{
		Delimiter:        cfg.Config.Delimiter,
		AnnotationColumn: &column,
		MinScore:         cfg.Config.MinScore,
		Header:           cmd.Bool(headerFlag),
		Workers:          cfg.Config.Workers,
		CacheDir:         cfg.Config.CacheDir,
		Refresh:          cmd.Bool(refreshFlag),
	}
	if cmd.IsSet(delimiterFlag) {
		opts.Delimiter = cmd.String(delimiterFlag)
	}
	if cmd.IsSet(columnFlag) {
		column = cmd.Int(columnFlag)
	}
	if cmd.IsSet(minScoreFlag) {
		opts.MinScore = cmd.Float(minScoreFlag)
	}
	if cmd.IsSet(workersFlag) {
		opts.Workers = cmd.Int(workersFlag)
	}
	if opts.CacheDir == "" {
		opts.CacheDir = filepath.Join(cfg.Dir, cacheDirName)
	}

	return analyzer.Load(ctx, src, opts)
}

func outputFormat(cmd *urfave.Command) string {
	f := getConfig(cmd).Config.Format
	if cmd.IsSet(formatFlag) {
		f = cmd.String(formatFlag)
	}
	if f == formatYAML || f == "yml" {
		return formatYAML
	}
	return formatJSON
}

func writer(cmd *urfave.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func encode(cmd *urfave.Command, v any) error {
	w := writer(cmd)
	if outputFormat(cmd) == formatYAML {
		return yaml.NewEncoder(w).Encode(v)
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
