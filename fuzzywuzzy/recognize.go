package fuzzywuzzy

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// ErrNoMatch is returned when the candidate set is empty after filtering.
// A low similarity score is still a valid match, never this error.
var ErrNoMatch = errors.New("no matching candidates")

// Match is the winning table entry for a query.
type Match struct {
	Text  string
	Path  []int
	Score int
}

// ExtractOne scans candidates in table order and returns the single best
// match. An exact match (score 100) returns immediately, so the first exact
// candidate wins. Otherwise the running cutoff is raised strictly above each
// accepted score, so a later candidate replaces the best only by strictly
// exceeding it: among equal scores the earliest candidate wins. minScore
// sets the initial cutoff; candidates below it are never returned.
func ExtractOne(query string, candidates []Candidate, scorer ScorerFunc, minScore int) (Match, error) {
	if scorer == nil {
		scorer = WRatio
	}
	cutoff := minScore
	if cutoff < 0 {
		cutoff = 0
	}

	var best Match
	found := false
	for _, c := range candidates {
		score := scorer(query, c.Text)
		if score == 100 {
			return Match{Text: c.Text, Path: c.Path, Score: score}, nil
		}
		if score < cutoff {
			continue
		}
		best = Match{Text: c.Text, Path: c.Path, Score: score}
		found = true
		cutoff = score + 1
	}
	if !found {
		return Match{}, ErrNoMatch
	}
	return best, nil
}

// RecognizeOptions carries per-query settings.
type RecognizeOptions struct {
	// IntentFilter restricts the scan to a subset of intents; nil admits all.
	IntentFilter IntentFilter
	// Converters are handed through to path reconstruction untouched.
	Converters map[string]ConverterFunc
}

// Recognizer matches query text against a trained candidate table. It holds
// everything a query session needs (table, graph, normalizer, scorer); there
// is no process-wide state. A Recognizer is read-only after construction and
// safe for concurrent queries; retraining swaps in a new Recognizer instead
// of mutating this one.
type Recognizer struct {
	graph    *Graph
	examples *ExampleSet
	norm     *Normalizer
	scorer   ScorerFunc
	minScore int
	logger   *log.Logger
}

// NewRecognizer constructs a recognizer for the given graph and candidate
// table. The normalizer must be the one the table was trained with.
func NewRecognizer(g *Graph, examples *ExampleSet, cfg Config, logger *log.Logger) (*Recognizer, error) {
	if g == nil {
		return nil, errors.New("intent graph is required")
	}
	if examples == nil {
		return nil, errors.New("example set is required")
	}
	cfg.ApplyDefaults()
	return &Recognizer{
		graph:    g,
		examples: examples,
		norm:     cfg.Normalizer(),
		scorer:   ScorerByName(cfg.Scorer),
		minScore: cfg.MinScore,
		logger:   logger,
	}, nil
}

// Examples returns the candidate table the recognizer scans.
func (r *Recognizer) Examples() *ExampleSet { return r.examples }

// Recognize finds the closest matching candidate for the input text and
// rebuilds a recognition from its path. Returns ErrNoMatch only when the
// (filtered) candidate set is empty.
func (r *Recognizer) Recognize(input string, opts RecognizeOptions) (Recognition, error) {
	started := time.Now()

	normalized := r.norm.Normalize(input)
	candidates := r.examples.Candidates(opts.IntentFilter)

	match, err := ExtractOne(normalized, candidates, r.scorer, r.minScore)
	if err != nil {
		return Recognition{}, err
	}
	r.logf("input=%q match=%q score=%d", input, match.Text, match.Score)

	rec, err := PathToRecognition(match.Path, r.graph, opts.Converters)
	if err != nil {
		return Recognition{}, err
	}
	rec.Intent.Confidence = float64(match.Score) / 100
	rec.RawText = input
	rec.RawTokens = strings.Fields(input)
	rec.RecognizeSeconds = time.Since(started).Seconds()
	return rec, nil
}

func (r *Recognizer) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}

// PathToRecognition rebuilds a recognition from a matched graph path: the
// intent name from the path's first edge and the sentence words along the
// path. Converters and entity typing belong to the slot reconstruction step
// layered on top; they are accepted here so callers can pass them through
// that boundary, but this core does not invoke them.
func PathToRecognition(path []int, g *Graph, converters map[string]ConverterFunc) (Recognition, error) {
	if len(path) <= 2 {
		return Recognition{}, fmt.Errorf("%w: path %v too short", ErrMalformedGraph, path)
	}
	first, ok := g.EdgeBetween(path[0], path[1])
	if !ok || !strings.HasPrefix(first.OLabel, IntentLabelPrefix) {
		return Recognition{}, fmt.Errorf("%w: path %v is missing its intent label", ErrMalformedGraph, path)
	}

	tokens := make([]string, 0, len(path))
	for _, id := range path {
		if w := g.Word(id); w != "" {
			tokens = append(tokens, w)
		}
	}

	stored := make([]int, len(path))
	copy(stored, path)
	return Recognition{
		Intent: Intent{Name: strings.TrimPrefix(first.OLabel, IntentLabelPrefix)},
		Text:   strings.Join(tokens, " "),
		Tokens: tokens,
		Path:   stored,
	}, nil
}
