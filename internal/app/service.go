package app

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/rotdrop/rhasspy-fuzzywuzzy/fuzzywuzzy"
)

// ErrNotTrained is returned when recognition is requested before a trained
// snapshot has been installed.
var ErrNotTrained = errors.New("no trained examples installed")

// Service owns the current trained snapshot and answers recognition
// requests against it. Retraining builds a complete new recognizer and swaps
// it in under the lock, so in-flight queries keep scanning the snapshot they
// started with and never observe a half-built table.
type Service struct {
	mu         sync.RWMutex
	cfg        fuzzywuzzy.Config
	recognizer *fuzzywuzzy.Recognizer

	results *gocache.Cache
	logger  *log.Logger
}

// NewService constructs a service with the given configuration.
func NewService(cfg fuzzywuzzy.Config, logger *log.Logger) *Service {
	cfg.ApplyDefaults()
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	return &Service{
		cfg:     cfg,
		results: gocache.New(ttl, 2*ttl),
		logger:  logger,
	}
}

// Config returns a copy of the current configuration.
func (s *Service) Config() fuzzywuzzy.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

// Train expands the intent graph into a candidate table and installs it as
// the active snapshot. Returns the number of generated candidates.
func (s *Service) Train(g *fuzzywuzzy.Graph) (int, error) {
	cfg := s.Config()
	examples, err := fuzzywuzzy.Train(g, cfg.Normalizer())
	if err != nil {
		return 0, fmt.Errorf("generate examples: %w", err)
	}
	recognizer, err := fuzzywuzzy.NewRecognizer(g, examples, cfg, s.logger)
	if err != nil {
		return 0, err
	}
	s.install(recognizer)
	s.logf("trained %d examples from graph with %d nodes, %d edges", examples.Len(), g.NumNodes(), g.NumEdges())
	return examples.Len(), nil
}

// Load installs a snapshot from a previously trained example store. The
// stored normalizer signature is checked against the configured one; a
// mismatch is logged rather than masked, since it silently degrades match
// quality.
func (s *Service) Load(g *fuzzywuzzy.Graph, store *fuzzywuzzy.Store) (int, error) {
	cfg := s.Config()
	examples, signature, err := store.ReadExamples()
	if err != nil {
		return 0, err
	}
	if want := cfg.Normalizer().Signature(); signature != "" && signature != want {
		s.logf("normalizer mismatch: examples trained with %q, queries will use %q", signature, want)
	}
	recognizer, err := fuzzywuzzy.NewRecognizer(g, examples, cfg, s.logger)
	if err != nil {
		return 0, err
	}
	s.install(recognizer)
	s.logf("loaded %d examples from %s", examples.Len(), store.Path())
	return examples.Len(), nil
}

// Examples returns the candidate table of the active snapshot, nil when
// nothing is trained yet.
func (s *Service) Examples() *fuzzywuzzy.ExampleSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.recognizer == nil {
		return nil
	}
	return s.recognizer.Examples()
}

// Recognize answers a query against the active snapshot. Unfiltered queries
// are served from the result cache when possible; filtered queries and
// queries carrying converters always scan, since their options are not part
// of the cache key.
func (s *Service) Recognize(text string, opts fuzzywuzzy.RecognizeOptions) (fuzzywuzzy.Recognition, error) {
	s.mu.RLock()
	recognizer := s.recognizer
	s.mu.RUnlock()
	if recognizer == nil {
		return fuzzywuzzy.Recognition{}, ErrNotTrained
	}

	cacheable := opts.IntentFilter == nil && len(opts.Converters) == 0
	if cacheable {
		if cached, ok := s.results.Get(text); ok {
			return cached.(fuzzywuzzy.Recognition), nil
		}
	}

	out, err := recognizer.Recognize(text, opts)
	if err != nil {
		return out, err
	}
	if cacheable {
		s.results.Set(text, out, gocache.DefaultExpiration)
	}
	return out, nil
}

func (s *Service) install(recognizer *fuzzywuzzy.Recognizer) {
	s.mu.Lock()
	s.recognizer = recognizer
	s.mu.Unlock()
	s.results.Flush()
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
