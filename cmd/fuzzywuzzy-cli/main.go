package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotdrop/rhasspy-fuzzywuzzy/fuzzywuzzy"
	"github.com/rotdrop/rhasspy-fuzzywuzzy/internal/app"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "train":
		err = runTrain(os.Args[2:])
	case "recognize":
		err = runRecognize(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		usage()
		err = fmt.Errorf("unknown command %q", os.Args[1])
	}
	if err != nil {
		log.Fatalf("fuzzywuzzy-cli: %v", err)
	}
}

func usage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <train|recognize> [options]\n\n", prog)
	fmt.Fprintf(os.Stderr, "  train      Generate intent examples from an intent graph\n")
	fmt.Fprintf(os.Stderr, "  recognize  Match query text against trained examples\n")
}

type trainOptions struct {
	configPath   string
	graphPath    string
	examplesPath string
	wordCasing   string
	debug        bool
}

func runTrain(args []string) error {
	var opts trainOptions
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	fs.StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	fs.StringVar(&opts.graphPath, "intent-graph", "", "Path to intent graph JSON file (default: stdin)")
	fs.StringVar(&opts.examplesPath, "examples", "", "Path to write examples SQLite database (default: JSON on stdout)")
	fs.StringVar(&opts.wordCasing, "word-casing", "", "Case transformation: upper, lower or ignore")
	fs.BoolVar(&opts.debug, "debug", false, "Print DEBUG messages to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := loadConfig(opts.configPath, opts.wordCasing, opts.debug)
	if err != nil {
		return err
	}

	graph, err := readGraph(opts.graphPath)
	if err != nil {
		return err
	}

	service := app.NewService(cfg, logger)
	count, err := service.Train(graph)
	if err != nil {
		return err
	}

	if opts.examplesPath == "" {
		// No database requested: emit the examples as JSON on stdout.
		enc := json.NewEncoder(os.Stdout)
		if err := enc.Encode(service.Examples().ByIntent()); err != nil {
			return fmt.Errorf("encode examples: %w", err)
		}
		return nil
	}

	store, err := fuzzywuzzy.OpenStore(opts.examplesPath)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.WriteExamples(service.Examples(), cfg.Normalizer().Signature()); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %d examples to %s\n", count, opts.examplesPath)
	return nil
}

type recognizeOptions struct {
	configPath   string
	graphPath    string
	examplesPath string
	wordCasing   string
	intents      string
	minScore     int
	debug        bool
	queries      []string
}

func runRecognize(args []string) error {
	var opts recognizeOptions
	fs := flag.NewFlagSet("recognize", flag.ExitOnError)
	fs.StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	fs.StringVar(&opts.graphPath, "intent-graph", "", "Path to intent graph JSON file (required)")
	fs.StringVar(&opts.examplesPath, "examples", "", "Path to examples SQLite database (required)")
	fs.StringVar(&opts.wordCasing, "word-casing", "", "Case transformation: upper, lower or ignore")
	fs.StringVar(&opts.intents, "intents", "", "Comma-separated intent names to restrict matching to")
	fs.IntVar(&opts.minScore, "min-score", 0, "Minimum similarity score (0-100) a match must reach")
	fs.BoolVar(&opts.debug, "debug", false, "Print DEBUG messages to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	opts.queries = fs.Args()

	if opts.graphPath == "" {
		return errors.New("missing required --intent-graph file")
	}
	if opts.examplesPath == "" {
		return errors.New("missing required --examples database")
	}

	cfg, logger, err := loadConfig(opts.configPath, opts.wordCasing, opts.debug)
	if err != nil {
		return err
	}
	if opts.minScore > 0 {
		cfg.MinScore = opts.minScore
	}

	graph, err := readGraph(opts.graphPath)
	if err != nil {
		return err
	}
	store, err := fuzzywuzzy.OpenStore(opts.examplesPath)
	if err != nil {
		return err
	}
	defer store.Close()

	service := app.NewService(cfg, logger)
	if _, err := service.Load(graph, store); err != nil {
		return err
	}

	recognizeOpts := fuzzywuzzy.RecognizeOptions{IntentFilter: intentFilter(opts.intents)}
	out := json.NewEncoder(os.Stdout)

	emit := func(query string) error {
		recognition, err := service.Recognize(strings.TrimSpace(query), recognizeOpts)
		if err != nil {
			if !errors.Is(err, fuzzywuzzy.ErrNoMatch) {
				return err
			}
			// Not recognized: emit an empty recognition and keep going.
			recognition = fuzzywuzzy.Recognition{}
		}
		return out.Encode(recognition)
	}

	if len(opts.queries) > 0 {
		for _, query := range opts.queries {
			if err := emit(query); err != nil {
				return err
			}
		}
		return nil
	}

	if stdinIsTerminal() {
		fmt.Fprintln(os.Stderr, "Reading queries from stdin...")
	}
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := emit(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func loadConfig(path, wordCasing string, debug bool) (fuzzywuzzy.Config, *log.Logger, error) {
	cfg, err := fuzzywuzzy.LoadConfig(path)
	if err != nil {
		return cfg, nil, err
	}
	if wordCasing != "" {
		cfg.WordCasing = wordCasing
	}
	var logger *log.Logger
	if debug {
		logger = log.New(os.Stderr, "DEBUG ", log.LstdFlags)
	}
	return cfg, logger, nil
}

func readGraph(path string) (*fuzzywuzzy.Graph, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open intent graph: %w", err)
		}
		defer f.Close()
		r = f
	} else if stdinIsTerminal() {
		fmt.Fprintln(os.Stderr, "Reading intent graph JSON from stdin...")
	}
	return fuzzywuzzy.ReadGraph(r)
}

func intentFilter(names string) fuzzywuzzy.IntentFilter {
	names = strings.TrimSpace(names)
	if names == "" {
		return nil
	}
	allowed := make(map[string]struct{})
	for _, name := range strings.Split(names, ",") {
		if name = strings.TrimSpace(name); name != "" {
			allowed[name] = struct{}{}
		}
	}
	return func(intent string) bool {
		_, ok := allowed[intent]
		return ok
	}
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
