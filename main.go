package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dtnitsch/keyword-extractor/internal/extract"
	"github.com/dtnitsch/keyword-extractor/internal/report"
	"github.com/dtnitsch/keyword-extractor/internal/runs"
	"github.com/urfave/cli/v2"
)

func backendFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "backend",
			Usage: "extraction backend: cli or http",
			Value: "cli",
		},
		&cli.StringFlag{
			Name:  "command",
			Usage: "executable invoked by the cli backend",
			Value: "claude",
		},
		&cli.StringSliceFlag{
			Name:  "command-arg",
			Usage: "argument placed before the prompt (repeatable, default -p)",
		},
		&cli.StringFlag{
			Name:  "api-url",
			Usage: "base URL of the messages API for the http backend",
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the http backend",
			EnvVars: []string{"ANTHROPIC_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "model name for the http backend",
		},
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "db",
		Usage: "run history database path",
		Value: "keyword-extractor.db",
	}
}

func main() {
	extractFlags := append([]cli.Flag{
		&cli.StringFlag{
			Name:    "docs-dir",
			Aliases: []string{"d"},
			Usage:   "directory holding the documents",
			Value:   "blogs",
		},
		&cli.StringFlag{
			Name:  "ext",
			Usage: "document file extension",
			Value: ".md",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "result CSV path",
			Value:   "result.csv",
		},
		&cli.StringFlag{
			Name:  "summary",
			Usage: "also write a YAML run summary to this path",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "number of concurrent workers",
			Value:   2,
		},
		&cli.IntFlag{
			Name:    "keywords",
			Aliases: []string{"k"},
			Usage:   "keywords per document (1-3)",
			Value:   3,
		},
		&cli.DurationFlag{
			Name:  "idle-timeout",
			Usage: "how long an idle worker waits for a task",
			Value: time.Second,
		},
		&cli.StringFlag{
			Name:  "language",
			Usage: "prompt language: auto, zh or en",
			Value: "auto",
		},
		dbFlag(),
		&cli.BoolFlag{
			Name:  "no-history",
			Usage: "do not record the run in the history database",
		},
	}, backendFlags()...)

	app := &cli.App{
		Name:  "keyword-extractor",
		Usage: "Extract keywords from a directory of documents with an LLM",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log debug records",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "extract",
				Usage:  "Extract keywords for every document and write the result CSV",
				Flags:  extractFlags,
				Action: extract.ExtractAction,
			},
			{
				Name:   "check",
				Usage:  "Send a test prompt to the extraction backend",
				Flags:  backendFlags(),
				Action: extract.CheckAction,
			},
			{
				Name:  "report",
				Usage: "Show the saved results with titles and repeated keywords",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "result CSV to read",
						Value:   "result.csv",
					},
					&cli.StringFlag{
						Name:    "docs-dir",
						Aliases: []string{"d"},
						Usage:   "directory used to look up document titles",
						Value:   "blogs",
					},
				},
				Action: report.ReportAction,
			},
			{
				Name:  "runs",
				Usage: "List recorded extraction runs",
				Flags: []cli.Flag{
					dbFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "maximum number of runs to list",
						Value: 20,
					},
				},
				ArgsUsage: "[run-id]",
				Action:    runs.RunsAction,
				Subcommands: []*cli.Command{
					{
						Name:      "show",
						Usage:     "Show one run's per-document results (latest by default)",
						ArgsUsage: "[run-id]",
						Flags:     []cli.Flag{dbFlag()},
						Action:    runs.RunAction,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
