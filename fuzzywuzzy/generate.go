package fuzzywuzzy

import (
	"errors"
	"fmt"
	"strings"
)

// IntentLabelPrefix marks the output label carrying an intent name on the
// first edge of every sentence path.
const IntentLabelPrefix = "__label__"

// ErrStopGeneration can be returned from a visit callback to end enumeration
// early without reporting an error.
var ErrStopGeneration = errors.New("stop example generation")

// Example is one concrete sentence enumerated from the intent graph,
// together with the node path that produced it.
type Example struct {
	Intent string
	Text   string
	Path   []int
}

// GenerateExamples enumerates every simple path from the graph's start node
// to its end node and calls visit once per path. Paths are produced one at a
// time in depth-first order following edge insertion order, so enumeration is
// deterministic and peak memory stays bounded by the longest path rather
// than the path count.
//
// The path count grows combinatorially with grammar branching; exhaustive
// expansion is the contract here, intended as an offline training step.
func GenerateExamples(g *Graph, visit func(Example) error) error {
	start, end, err := g.StartEnd()
	if err != nil {
		return err
	}

	path := []int{start}
	onPath := map[int]bool{start: true}

	var walk func(id int) error
	walk = func(id int) error {
		if id == end {
			ex, err := exampleFromPath(g, path)
			if err != nil {
				return err
			}
			return visit(ex)
		}
		for _, e := range g.Edges(id) {
			if onPath[e.To] {
				continue
			}
			path = append(path, e.To)
			onPath[e.To] = true
			err := walk(e.To)
			onPath[e.To] = false
			path = path[:len(path)-1]
			if err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(start); err != nil && !errors.Is(err, ErrStopGeneration) {
		return err
	}
	return nil
}

func exampleFromPath(g *Graph, path []int) (Example, error) {
	if len(path) <= 2 {
		return Example{}, fmt.Errorf("%w: path %v has no word nodes between start and end", ErrMalformedGraph, path)
	}

	// The first edge out of the start node names the intent.
	first, ok := g.EdgeBetween(path[0], path[1])
	if !ok || !strings.HasPrefix(first.OLabel, IntentLabelPrefix) {
		return Example{}, fmt.Errorf("%w: path %v is missing its intent label", ErrMalformedGraph, path)
	}
	intent := strings.TrimPrefix(first.OLabel, IntentLabelPrefix)
	if intent == "" {
		return Example{}, fmt.Errorf("%w: path %v has an empty intent name", ErrMalformedGraph, path)
	}

	words := make([]string, 0, len(path))
	for _, id := range path {
		if w := g.Word(id); w != "" {
			words = append(words, w)
		}
	}

	out := make([]int, len(path))
	copy(out, path)
	return Example{Intent: intent, Text: strings.Join(words, " "), Path: out}, nil
}
