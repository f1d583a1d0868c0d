// Package main is the seiri CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/seiri/internal/config"
	"github.com/hyperjump/seiri/internal/keyword"
	"github.com/hyperjump/seiri/internal/output"
	"github.com/hyperjump/seiri/internal/pipeline"
	"github.com/hyperjump/seiri/internal/server"
	"github.com/hyperjump/seiri/internal/storage"
	"github.com/hyperjump/seiri/internal/watcher"
	"github.com/hyperjump/seiri/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/seiri/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "seiri run" from the project dir uses the project's config.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "run":
		runBatch()
	case "index":
		runIndex()
	case "serve":
		runServe()
	case "search":
		runSearch()
	case "watch":
		runWatch()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("seiri version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runBatch() {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	inputDir := fs.String("input", "", "input directory (overrides config)")
	outputDir := fs.String("output", "", "output directory (overrides config)")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *inputDir != "" {
		cfg.Input.Directory = *inputDir
	}
	if *outputDir != "" {
		cfg.Output.Directory = *outputDir
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("input", cfg.Input.Directory),
		zap.String("output", cfg.Output.Directory),
	)

	result, err := executeBatch(context.Background(), cfg, logger)
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyBatch) {
			logger.Warn("no documents processed, nothing written", zap.Error(err))
			os.Exit(1)
		}
		logger.Fatal("Batch run failed", zap.Error(err))
	}
	printRunSummary(result)
}

// executeBatch runs the pipeline over the configured input, writes all output
// artifacts, and persists the corpus when storage paths are configured.
func executeBatch(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pipeline.Result, error) {
	p := pipeline.New(&cfg.Pipeline, pipeline.WithLogger(logger))
	result, err := p.Run(ctx, cfg.Input.Directory, cfg.Input.Extensions)
	if err != nil {
		return nil, err
	}

	writer := output.NewWriter(cfg.Output.Directory, &cfg.Brand, output.WithLogger(logger))
	if err := writer.WriteAll(result); err != nil {
		return nil, fmt.Errorf("write artifacts: %w", err)
	}

	if cfg.Storage.DatabasePath != "" {
		store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		defer store.Close()
		if err := store.ReplaceDocuments(ctx, result.Documents); err != nil {
			return nil, fmt.Errorf("persist documents: %w", err)
		}
		if err := store.ReplaceRelationships(ctx, result.Relationships); err != nil {
			return nil, fmt.Errorf("persist relationships: %w", err)
		}
		if err := store.SaveRunMetrics(ctx, &result.Metrics); err != nil {
			return nil, fmt.Errorf("persist run metrics: %w", err)
		}
		logger.Info("corpus persisted", zap.String("database", cfg.Storage.DatabasePath))
	}

	if cfg.Storage.BleveIndexPath != "" {
		idx, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
		if err != nil {
			return nil, fmt.Errorf("open keyword index: %w", err)
		}
		defer idx.Close()
		if err := idx.IndexBatch(ctx, result.Documents); err != nil {
			return nil, fmt.Errorf("index corpus: %w", err)
		}
		logger.Info("corpus indexed", zap.String("index", cfg.Storage.BleveIndexPath))
	}

	return result, nil
}

func printRunSummary(result *pipeline.Result) {
	m := result.Metrics
	fmt.Printf("files_found:     %d\n", m.FilesFound)
	fmt.Printf("processed:       %d\n", m.Processed)
	fmt.Printf("failed:          %d\n", m.Failed)
	fmt.Printf("success_rate:    %.1f%%\n", m.SuccessRate())
	fmt.Printf("coverage:        %.1f%%\n", m.Coverage())
	fmt.Printf("categories:      %d\n", len(result.ByCategory))
	fmt.Printf("elapsed:         %s\n", m.FinishedAt.Sub(m.StartedAt).Round(time.Millisecond))
}

// runIndex rebuilds the keyword index from the stored corpus without
// re-running the pipeline.
func runIndex() {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Storage.DatabasePath == "" || cfg.Storage.BleveIndexPath == "" {
		fmt.Println("index requires storage.database_path and storage.bleve_index_path in config")
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()

	idx, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		logger.Fatal("Failed to open keyword index", zap.Error(err))
	}
	defer idx.Close()

	ctx := context.Background()
	indexed := 0
	const pageSize = 200
	for offset := 0; ; offset += pageSize {
		docs, err := store.ListDocuments(ctx, "", offset, pageSize)
		if err != nil {
			logger.Fatal("Failed to list documents", zap.Error(err))
		}
		if len(docs) == 0 {
			break
		}
		if err := idx.IndexBatch(ctx, docs); err != nil {
			logger.Fatal("Failed to index batch", zap.Error(err))
		}
		indexed += len(docs)
	}
	fmt.Printf("Indexed %d document(s)\n", indexed)
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Storage.DatabasePath == "" {
		fmt.Println("serve requires storage.database_path in config")
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()

	var idx keyword.Index
	if cfg.Storage.BleveIndexPath != "" {
		bleveIdx, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
		if err != nil {
			logger.Fatal("Failed to open keyword index", zap.Error(err))
		}
		defer bleveIdx.Close()
		idx = bleveIdx
	}

	srv := server.NewServer(store, idx, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct index access when server is not running)")
	category := fs.String("category", "", "restrict results to one category")
	limit := fs.Int("limit", 10, "number of results")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: seiri search [flags] <query>")
		os.Exit(1)
	}
	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		fmt.Println("Usage: seiri search [flags] <query>")
		os.Exit(1)
	}

	req := server.SearchRequest{Query: queryStr, Category: *category, Limit: *limit}

	var hits []*keyword.Result
	if *serverURL != "" {
		// Use HTTP API when server is running (avoids Bleve lock conflict).
		results, err := searchViaHTTP(*serverURL, &req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		hits = results
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		if cfg.Storage.BleveIndexPath == "" {
			fmt.Fprintln(os.Stderr, "search requires storage.bleve_index_path in config")
			os.Exit(1)
		}
		idx, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open keyword index: %v\n", err)
			os.Exit(1)
		}
		defer idx.Close()
		hits, err = idx.Search(context.Background(), queryStr, *category, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(hits); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		if len(hits) == 0 {
			fmt.Println("No results.")
			return
		}
		for i, hit := range hits {
			fmt.Printf("%2d. %-50s %.4f\n", i+1, hit.Filename, hit.Score)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, req *server.SearchRequest) ([]*keyword.Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response struct {
		Results []*keyword.Result `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return response.Results, nil
}

// runWatch watches the input directory and re-runs the whole batch whenever
// the input set settles after a change.
func runWatch() {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("input", cfg.Input.Directory),
	)

	runOnce := func() {
		result, err := executeBatch(context.Background(), cfg, logger)
		if err != nil {
			if errors.Is(err, pipeline.ErrEmptyBatch) {
				logger.Warn("no documents processed, nothing written", zap.Error(err))
				return
			}
			logger.Error("batch run failed", zap.Error(err))
			return
		}
		logger.Info("batch complete",
			zap.Int("processed", result.Metrics.Processed),
			zap.Int("failed", result.Metrics.Failed),
		)
	}

	watchOpts := []watcher.WatcherOption{
		watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond),
	}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	w := watcher.NewWatcher(cfg.Input.Directory, cfg.Input.Extensions, runOnce, watchOpts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}

	// Process whatever is already there before waiting for changes.
	runOnce()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	w.Stop()
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status map[string]interface{}
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		if cfg.Storage.DatabasePath == "" {
			fmt.Fprintln(os.Stderr, "status requires storage.database_path in config")
			os.Exit(1)
		}
		store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		ctx := context.Background()
		docCount, err := store.CountDocuments(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count documents failed: %v\n", err)
			os.Exit(1)
		}
		byCategory, err := store.CountByCategory(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count by category failed: %v\n", err)
			os.Exit(1)
		}
		status = map[string]interface{}{
			"documents":  docCount,
			"categories": byCategory,
		}
		if last, err := store.LastRunMetrics(ctx); err == nil && last != nil {
			status["last_run"] = map[string]interface{}{
				"run_id":      last.RunID,
				"files_found": last.FilesFound,
				"processed":   last.Processed,
				"failed":      last.Failed,
				"finished_at": last.FinishedAt,
			}
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		data, _ := json.MarshalIndent(status, "", "  ")
		fmt.Println(string(data))
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (map[string]interface{}, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return s, nil
}

func printUsage() {
	fmt.Println(`seiri - Scraped-content curation pipeline for RAG knowledge bases

Usage:
  seiri run [flags]               Run the batch pipeline over the input directory
  seiri index [flags]             Rebuild the keyword index from stored corpus
  seiri serve [flags]             Start the HTTP retrieval API
  seiri search [flags] <query>    Search the processed corpus
  seiri watch [flags]             Watch input and re-run the batch on changes
  seiri status [flags]            Show corpus/storage status
  seiri version                   Show version
  seiri help                      Show this help

Run Flags:
  --config string    Config file path (default: /usr/local/etc/seiri/config.yaml)
  --input string     Input directory (overrides config)
  --output string    Output directory (overrides config)
  --debug            Enable debug logging

Serve Flags:
  --config string    Config file path
  --debug            Enable debug logging

Search Flags:
  --config string    Config file path (for direct index mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct index access.
  --category string  Restrict results to one category
  --limit int        Number of results (default: 10)
  --output string    Output format: text or json (default: text)

Status Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --output string    Output format: text or json (default: text)

Examples:
  seiri run
  seiri run --input ./raw_scraped_data --output ./data/knowledge_base/website
  seiri watch
  seiri serve
  seiri search "minimum deposit"
  seiri search --category accounts "leverage"
  seiri status`)
}
