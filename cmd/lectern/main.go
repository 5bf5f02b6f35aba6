// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/lectern"
	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/index/elastic"
	"github.com/poiesic/lectern/search"
)

func main() {
	app := &cli.App{
		Name:  "lectern",
		Usage: "Search transcribed Arabic speech",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringSliceFlag{
				Name:  "es-address",
				Usage: "Index service node URL (repeatable)",
				Value: cli.NewStringSlice("http://localhost:9200"),
			},
			&cli.StringFlag{
				Name:    "es-api-key",
				Usage:   "Index service API key",
				EnvVars: []string{"LECTERN_ES_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "es-username",
				Usage:   "Index service username",
				EnvVars: []string{"LECTERN_ES_USERNAME"},
			},
			&cli.StringFlag{
				Name:    "es-password",
				Usage:   "Index service password",
				EnvVars: []string{"LECTERN_ES_PASSWORD"},
			},
			&cli.StringFlag{
				Name:  "index",
				Usage: "Segment index name",
				Value: lectern.DefaultIndexName,
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL",
				Value: "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
				Value: "aubmindlab/bert-base-arabertv2",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search indexed segments",
				ArgsUsage: "<query terms...>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "size",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   search.DefaultSize,
					},
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Usage:   "Search mode (lexical, enhanced, semantic)",
						Value:   "enhanced",
					},
					&cli.BoolFlag{
						Name:    "group",
						Aliases: []string{"g"},
						Usage:   "Reconstruct conversation groups",
					},
				},
			},
			{
				Name:   "health",
				Usage:  "Probe the index service",
				Action: healthCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newEngine(c *cli.Context) (*lectern.Engine, error) {
	return lectern.NewEngine(
		lectern.WithElasticConfig(elastic.NewConfig(
			elastic.WithAddresses(c.StringSlice("es-address")...),
			elastic.WithAPIKey(c.String("es-api-key")),
			elastic.WithBasicAuth(c.String("es-username"), c.String("es-password")),
		)),
		lectern.WithAIConfig(ai.NewConfig(
			ai.WithEmbeddingHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
		)),
		lectern.WithIndexName(c.String("index")),
	)
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("query terms are required")
	}

	mode, err := core.ParseMode(c.String("mode"))
	if err != nil {
		return fmt.Errorf("invalid mode %q: must be one of lexical, enhanced, semantic", c.String("mode"))
	}

	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	searcher, err := engine.NewSearcher()
	if err != nil {
		return err
	}

	resp, err := searcher.Search(context.Background(), &search.Request{
		Query: strings.Join(c.Args().Slice(), " "),
		Size:  c.Int("size"),
		Mode:  mode,
		Group: c.Bool("group"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Found %d matches (showing %d, mode %s, %s)\n",
		resp.Total, resp.Returned, resp.ModeUsed, resp.QueryTime.Round(time.Millisecond))

	if c.Bool("group") {
		printGroups(resp.Groups)
	} else {
		printRecords(resp)
	}
	return nil
}

func printRecords(resp *search.Response) {
	for i, record := range resp.Results {
		fmt.Printf("%d. [%s] %.3f\n   %s\n   %s\n",
			i+1, record.Timestamp, record.Score, record.Text, record.DeepLink)
	}
}

func printGroups(groups []core.ConversationGroup) {
	for _, group := range groups {
		fmt.Printf("== %s ==\n", group.GroupID)
		for _, item := range group.Items {
			marker := "  "
			if item.IsMatch {
				marker = "* "
			}
			fmt.Printf("%s%d: %s\n", marker, item.Sequence, item.Text)
		}
	}
}

func healthCommand(c *cli.Context) error {
	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	info, up := engine.Health(context.Background())
	if !up {
		return fmt.Errorf("index service is unreachable")
	}
	if info != nil {
		fmt.Printf("cluster %s, version %s\n", info.ClusterName, info.Version)
	} else {
		fmt.Println("index service is up")
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
