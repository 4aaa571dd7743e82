package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nguyentantai21042004/ingest-flow/internal/batch"
	"github.com/nguyentantai21042004/ingest-flow/internal/capability"
	"github.com/nguyentantai21042004/ingest-flow/internal/config"
	"github.com/nguyentantai21042004/ingest-flow/internal/extractor"
	"github.com/nguyentantai21042004/ingest-flow/internal/ledger"
	"github.com/nguyentantai21042004/ingest-flow/internal/logger"
	"github.com/nguyentantai21042004/ingest-flow/internal/processor"
	"github.com/nguyentantai21042004/ingest-flow/internal/subtitle"
	"github.com/nguyentantai21042004/ingest-flow/internal/transcriber"
	"github.com/nguyentantai21042004/ingest-flow/internal/watcher"
	"github.com/nguyentantai21042004/ingest-flow/pkg/executor"
)

const Version = "0.3.0"

const (
	opExtract  = "extract"
	opKeywords = "keywords"
	opSRT      = "srt"
	opWatch    = "watch"
	opLast     = "last"
)

var (
	configFlag    = flag.String("config", "config.yaml", "Path to the YAML config file")
	opFlag        = flag.String("op", opWatch, "Operation: extract, keywords, srt, watch or last")
	fileFlag      = flag.String("file", "", "Media file for the srt operation")
	dirFlag       = flag.String("dir", "", "Directory to walk (default: paths.input)")
	keywordsFlag  = flag.String("keywords", "", "Comma-separated keywords (default: batch.keywords)")
	selectionFlag = flag.String("selection", "", "File selection policy (default: batch.selection)")
	languageFlag  = flag.String("language", "", "Language of log messages (default: logging.language)")
	versionFlag   = flag.Bool("version", false, "Print version information")
)

// app holds the wired components shared by every operation.
type app struct {
	cfg       *config.Config
	log       logger.Logger
	registry  capability.Registry
	driver    batch.Driver
	processor processor.Processor
	ledger    *ledger.Store
}

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Printf("ingest-flow version %s\n", Version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)

	a, err := newApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx, *opFlag); err != nil && !errors.Is(err, context.Canceled) {
		a.log.Error(ctx, "Operation %s failed: %v", *opFlag, err)
		a.close()
		os.Exit(1)
	}
}

// applyFlags lets command-line flags override the config file.
func applyFlags(cfg *config.Config) {
	if *languageFlag != "" {
		cfg.Logging.Language = *languageFlag
	}
	if *selectionFlag != "" {
		cfg.Batch.Selection = *selectionFlag
	}
	if kw := parseKeywords(*keywordsFlag); len(kw) > 0 {
		cfg.Batch.Keywords = kw
	}
}

func parseKeywords(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func newApp(cfg *config.Config) (*app, error) {
	catalog, err := logger.LoadCatalog(cfg.Logging.Catalog, cfg.Logging.Language)
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Logging.Level, catalog)

	for _, dir := range []string{cfg.Paths.Output, cfg.Paths.Temp} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	exec := executor.New()
	tr, err := transcriber.New(cfg, exec, log)
	if err != nil {
		return nil, err
	}

	registry := capability.New(cfg, exec, tr, log)
	ex := extractor.New(cfg.Extract, cfg.Paths.Temp, registry, log)
	builder := subtitle.New(cfg.Subtitle, cfg.Paths.Temp, tr, log)

	a := &app{
		cfg:       cfg,
		log:       log,
		registry:  registry,
		processor: processor.New(cfg, exec, builder, log),
	}

	var rec batch.Recorder
	if cfg.Paths.Ledger != "" {
		store, err := ledger.Open(cfg.Paths.Ledger)
		if err != nil {
			return nil, err
		}
		a.ledger = store
		rec = store
	}
	a.driver = batch.New(cfg, ex, rec, log)

	return a, nil
}

func (a *app) close() {
	if a.ledger != nil {
		a.ledger.Close()
		a.ledger = nil
	}
}

func (a *app) run(ctx context.Context, op string) error {
	dir := *dirFlag
	if dir == "" {
		dir = a.cfg.Paths.Input
	}

	switch op {
	case opExtract:
		s, err := a.driver.Run(ctx, dir)
		fmt.Println(renderSummary(s))
		return err

	case opKeywords:
		s, err := a.driver.RunKeywords(ctx, dir, a.cfg.Batch.Keywords)
		fmt.Println(renderSummary(s))
		return err

	case opSRT:
		if *fileFlag == "" {
			return errors.New("-file is required for the srt operation")
		}
		res, err := a.processor.Process(ctx, *fileFlag)
		if err != nil {
			return err
		}
		fmt.Println(renderResult(res))
		return nil

	case opWatch:
		return a.watch(ctx)

	case opLast:
		if a.ledger == nil {
			return errors.New("paths.ledger is not configured")
		}
		run, err := a.ledger.LatestRun(ctx)
		if err != nil {
			return err
		}
		if run == nil {
			fmt.Println("No runs recorded yet")
			return nil
		}
		fmt.Println(renderRun(*run))
		return nil

	default:
		return fmt.Errorf("unknown operation %q", op)
	}
}

// watch ingests files dropped into paths.input: media become subtitles,
// everything else goes through extraction.
func (a *app) watch(ctx context.Context) error {
	if err := os.MkdirAll(a.cfg.Paths.Input, 0755); err != nil {
		return fmt.Errorf("create input dir: %w", err)
	}

	handler := func(ctx context.Context, path string) error {
		if isMedia(path) {
			_, err := a.processor.Process(ctx, path)
			return err
		}
		return a.driver.HandleFile(ctx, path)
	}
	supported := func(path string) bool {
		_, _, ok := a.registry.Lookup(path)
		return ok
	}

	w, err := watcher.New(a.cfg.Paths.Input, handler, supported, watcher.DefaultSettle, a.log)
	if err != nil {
		return err
	}
	defer w.Stop()

	a.log.Info(ctx, "Pipeline is ready. Monitoring: %s", a.cfg.Paths.Input)
	a.log.Info(ctx, "Output: %s", a.cfg.Paths.Output)
	a.log.Info(ctx, "Press Ctrl+C to stop")

	err = w.Start(ctx)
	a.log.Info(ctx, "Pipeline stopped")
	return err
}

func isMedia(path string) bool {
	switch capability.KindOf(path) {
	case capability.KindAudio, capability.KindVideo:
		return true
	}
	return false
}
