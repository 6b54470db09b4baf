package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/lexicore/internal/cache"
	"github.com/standardbeagle/lexicore/internal/config"
	"github.com/standardbeagle/lexicore/internal/corpus"
	"github.com/standardbeagle/lexicore/internal/debug"
	"github.com/standardbeagle/lexicore/internal/index"
	"github.com/standardbeagle/lexicore/internal/search"
	"github.com/standardbeagle/lexicore/internal/server"
	"github.com/standardbeagle/lexicore/internal/store"
	"github.com/standardbeagle/lexicore/internal/types"
)

// core bundles everything a subcommand needs, built once from Config by
// loadConfigWithOverrides's caller in each Action.
type core struct {
	cfg      *config.Config
	store    *corpus.Store
	engine   *search.Engine
	ttl      *corpus.TTLScheduler
	cache    *cache.Manager
	docs     store.DocumentStore
	versions *index.VersionStore
}

// loadConfigWithOverrides loads configuration and applies CLI flag
// overrides on top of whatever the config file provided.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	return cfg, nil
}

func buildCore(cfg *config.Config) (*core, error) {
	cacheMgr, err := cache.NewManager(cfg.Cache.DiskRoot, cache.DefaultNamespaceConfigs())
	if err != nil {
		return nil, fmt.Errorf("failed to build cache manager: %w", err)
	}

	st := corpus.NewStore()

	versions := index.NewVersionStore()
	publisher := index.NewPublisher(versions, cacheMgr, index.MatcherConfig{
		ExactEnabled:    true,
		PrefixEnabled:   true,
		FuzzyEnabled:    true,
		SemanticEnabled: cfg.Semantic.Enabled,
	})
	st.SetOnMutate(func(c *corpus.Corpus) {
		if err := publisher.PublishAll(c); err != nil {
			debug.LogIndex("artifact publish for corpus %d failed: %v\n", c.ID, err)
		}
	})

	ttlSched := corpus.NewTTLScheduler(st)
	ttlSched.Sync()

	embedder := index.NewFlatEmbedder(cfg.Semantic.EmbedDim)
	engine := search.NewEngine(st, embedder)
	engine.SetArtifactSink(func(c *corpus.Corpus, rid string, dataHash uint64, payload []byte) {
		if err := publisher.PublishSemantic(c, rid, dataHash, payload); err != nil {
			debug.LogIndex("semantic artifact publish for corpus %d failed: %v\n", c.ID, err)
		}
	})
	engine.MarkReady()

	docs := store.NewCacheBackedStore(cacheMgr, store.JSONCodec{})

	return &core{cfg: cfg, store: st, engine: engine, ttl: ttlSched, cache: cacheMgr, docs: docs, versions: versions}, nil
}

func main() {
	app := &cli.App{
		Name:  "lexicored",
		Usage: "Multilingual dictionary and vocabulary search service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path",
				Value:   ".lexicore.kdl",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address override (e.g. :8080)",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			corpusCommand(),
			searchCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the REST API surface",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}
			cr, err := buildCore(cfg)
			if err != nil {
				return err
			}

			var watcher *config.Watcher
			if cfg.Corpus.ConfigPath != "" {
				watcher, err = config.NewWatcher(cfg.Corpus.ConfigPath, func(reloaded *config.Config) {
					debug.LogServer("config reloaded from %s\n", cfg.Corpus.ConfigPath)
					cr.cfg = reloaded
				})
				if err != nil {
					debug.LogServer("config hot-reload disabled: %v\n", err)
				}
			}
			if watcher != nil {
				defer watcher.Close()
			}
			defer cr.ttl.Close()

			mux := http.NewServeMux()
			srv := server.New(server.Options{
				Store:      cr.store,
				Engine:     cr.engine,
				TTL:        cr.ttl,
				Cache:      cr.cache,
				ShardCount: cfg.Semantic.WorkerShards,
				SemanticOn: cfg.Semantic.Enabled,
				DBBackend:  "cache-backed-document-store",
			})
			srv.RegisterRoutes(mux)

			httpServer := &http.Server{Addr: cfg.Server.Addr, Handler: mux}

			errCh := make(chan error, 1)
			go func() {
				debug.LogServer("listening on %s\n", cfg.Server.Addr)
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigCh:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return httpServer.Shutdown(ctx)
			}
		},
	}
}

func corpusCommand() *cli.Command {
	return &cli.Command{
		Name:  "corpus",
		Usage: "Manage corpora without running the server",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a corpus from a word list file (one word per line)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "language", Value: "en"},
					&cli.StringFlag{Name: "file", Required: true},
				},
				Action: func(c *cli.Context) error {
					cfg, err := loadConfigWithOverrides(c)
					if err != nil {
						return err
					}
					cr, err := buildCore(cfg)
					if err != nil {
						return err
					}
					words, err := readLines(c.String("file"))
					if err != nil {
						return err
					}
					created, err := cr.store.Create(c.String("name"), words, types.Language(c.String("language")), types.CorpusCustom)
					if err != nil {
						return err
					}
					fmt.Printf("created corpus %q (id=%d, %d words)\n", created.Name, created.ID, len(created.Vocabulary))
					return nil
				},
			},
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Run a one-off query against a corpus built from a word list file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "corpus", Required: true},
			&cli.StringFlag{Name: "language", Value: "en"},
			&cli.StringFlag{Name: "file", Required: true},
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Required: true},
			&cli.StringFlag{Name: "mode", Value: string(types.ModeSmart)},
			&cli.IntFlag{Name: "max-results", Value: 20},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}
			cr, err := buildCore(cfg)
			if err != nil {
				return err
			}
			words, err := readLines(c.String("file"))
			if err != nil {
				return err
			}
			if _, err := cr.store.Create(c.String("corpus"), words, types.Language(c.String("language")), types.CorpusCustom); err != nil {
				return err
			}

			resp, err := cr.engine.Search(context.Background(), types.QueryParams{
				Query:      c.String("query"),
				Mode:       types.SearchMode(c.String("mode")),
				CorpusName: c.String("corpus"),
				MaxResults: c.Int("max-results"),
				MinScore:   cfg.Search.DefaultMinScore,
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			words = append(words, line)
		}
	}
	return words, scanner.Err()
}
