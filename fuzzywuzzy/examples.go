package fuzzywuzzy

// Candidate is one table entry: a normalized sentence, the intent it
// belongs to and the graph path that produced it.
type Candidate struct {
	Intent string
	Text   string
	Path   []int
}

// IntentFilter restricts a candidate scan to a subset of intents. A nil
// filter admits every intent.
type IntentFilter func(intent string) bool

// ExampleSet is the candidate table built from a trained grammar: an
// insertion-ordered collection of sentence candidates, read-only at query
// time. Candidate order is load-bearing; the recognizer's tie-break rule
// depends on stable, reproducible scan order.
type ExampleSet struct {
	candidates []Candidate
	positions  map[string]int // intent+"\x00"+text -> index into candidates
}

// NewExampleSet returns an empty candidate table.
func NewExampleSet() *ExampleSet {
	return &ExampleSet{positions: make(map[string]int)}
}

// Add inserts a candidate. A repeated (intent, text) pair keeps its original
// position and takes the newer path, so duplicate renderings resolve
// deterministically by enumeration order.
func (s *ExampleSet) Add(intent, text string, path []int) {
	stored := make([]int, len(path))
	copy(stored, path)

	key := intent + "\x00" + text
	if i, ok := s.positions[key]; ok {
		s.candidates[i].Path = stored
		return
	}
	s.positions[key] = len(s.candidates)
	s.candidates = append(s.candidates, Candidate{Intent: intent, Text: text, Path: stored})
}

// Len returns the number of candidates.
func (s *ExampleSet) Len() int { return len(s.candidates) }

// Candidates returns the candidates admitted by the filter, in insertion
// order. The returned slice is fresh but the paths are shared; callers must
// treat them as read-only.
func (s *ExampleSet) Candidates(filter IntentFilter) []Candidate {
	out := make([]Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		if filter != nil && !filter(c.Intent) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Intents returns the distinct intent names in first-seen order.
func (s *ExampleSet) Intents() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range s.candidates {
		if _, ok := seen[c.Intent]; ok {
			continue
		}
		seen[c.Intent] = struct{}{}
		out = append(out, c.Intent)
	}
	return out
}

// ByIntent groups candidates as intent -> sentence -> path, the interchange
// shape used for JSON export.
func (s *ExampleSet) ByIntent() map[string]map[string][]int {
	out := make(map[string]map[string][]int)
	for _, c := range s.candidates {
		m, ok := out[c.Intent]
		if !ok {
			m = make(map[string][]int)
			out[c.Intent] = m
		}
		m[c.Text] = c.Path
	}
	return out
}
