package fuzzywuzzy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedGraph is returned when an intent graph violates its structural
// contract: missing or duplicated start/end markers, edges referencing
// unknown nodes, or a path without an intent label on its first edge.
var ErrMalformedGraph = errors.New("malformed intent graph")

// Node is a single vertex of an intent graph. Word is empty for structural
// nodes that render to nothing. Exactly one node per graph carries Start and
// exactly one carries Final.
type Node struct {
	ID    int
	Word  string
	Start bool
	Final bool
}

// Edge is a directed transition between two nodes. OLabel carries the output
// label attached by the grammar compiler; the first edge of every sentence
// path holds the intent label.
type Edge struct {
	From   int
	To     int
	OLabel string
	ILabel string
}

// Graph is an immutable-after-build directed acyclic graph of word choices
// produced by the grammar compiler. Nodes are owned by index in an
// adjacency list; node IDs are the external identifiers paths refer to.
type Graph struct {
	nodes []Node
	index map[int]int // node ID -> position in nodes
	out   [][]Edge    // outgoing edges per position, insertion order
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{index: make(map[int]int)}
}

// AddNode appends a word node and returns its ID.
func (g *Graph) AddNode(word string) int {
	id := g.nextID()
	g.addNode(Node{ID: id, Word: word})
	return id
}

// AddStartNode appends the designated start node and returns its ID.
func (g *Graph) AddStartNode() int {
	id := g.nextID()
	g.addNode(Node{ID: id, Start: true})
	return id
}

// AddFinalNode appends the designated end node and returns its ID.
func (g *Graph) AddFinalNode() int {
	id := g.nextID()
	g.addNode(Node{ID: id, Final: true})
	return id
}

// AddEdge connects two existing nodes. Edges keep insertion order, which
// fixes the path enumeration order of the generator.
func (g *Graph) AddEdge(from, to int, olabel string) error {
	i, ok := g.index[from]
	if !ok {
		return fmt.Errorf("%w: edge from unknown node %d", ErrMalformedGraph, from)
	}
	if _, ok := g.index[to]; !ok {
		return fmt.Errorf("%w: edge to unknown node %d", ErrMalformedGraph, to)
	}
	g.out[i] = append(g.out[i], Edge{From: from, To: to, OLabel: olabel})
	return nil
}

func (g *Graph) nextID() int {
	id := len(g.nodes)
	for {
		if _, ok := g.index[id]; !ok {
			return id
		}
		id++
	}
}

func (g *Graph) addNode(n Node) {
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.out = append(g.out, nil)
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the edge count.
func (g *Graph) NumEdges() int {
	total := 0
	for _, edges := range g.out {
		total += len(edges)
	}
	return total
}

// Node looks up a node by ID.
func (g *Graph) Node(id int) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Word returns the word attribute of a node, empty for structural nodes.
func (g *Graph) Word(id int) string {
	n, _ := g.Node(id)
	return n.Word
}

// Edges returns the outgoing edges of a node in insertion order. The slice
// is owned by the graph and must not be mutated.
func (g *Graph) Edges(id int) []Edge {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.out[i]
}

// EdgeBetween returns the first edge from one node to another.
func (g *Graph) EdgeBetween(from, to int) (Edge, bool) {
	for _, e := range g.Edges(from) {
		if e.To == to {
			return e, true
		}
	}
	return Edge{}, false
}

// StartEnd locates the unique start and end nodes. A missing or duplicated
// marker is a fatal grammar defect.
func (g *Graph) StartEnd() (start, end int, err error) {
	startCount, endCount := 0, 0
	for _, n := range g.nodes {
		if n.Start {
			start = n.ID
			startCount++
		}
		if n.Final {
			end = n.ID
			endCount++
		}
	}
	if startCount != 1 {
		return 0, 0, fmt.Errorf("%w: expected exactly one start node, found %d", ErrMalformedGraph, startCount)
	}
	if endCount != 1 {
		return 0, 0, fmt.Errorf("%w: expected exactly one end node, found %d", ErrMalformedGraph, endCount)
	}
	return start, end, nil
}

// Node-link JSON, the interchange format with the grammar compiler.
type graphJSON struct {
	Directed   bool            `json:"directed"`
	Multigraph bool            `json:"multigraph"`
	Graph      map[string]any  `json:"graph"`
	Nodes      []graphNodeJSON `json:"nodes"`
	Links      []graphLinkJSON `json:"links"`
}

type graphNodeJSON struct {
	ID    int    `json:"id"`
	Word  string `json:"word,omitempty"`
	Start bool   `json:"start,omitempty"`
	Final bool   `json:"final,omitempty"`
}

type graphLinkJSON struct {
	Source int    `json:"source"`
	Target int    `json:"target"`
	OLabel string `json:"olabel,omitempty"`
	ILabel string `json:"ilabel,omitempty"`
}

// ReadGraph decodes a node-link JSON intent graph.
func ReadGraph(r io.Reader) (*Graph, error) {
	var doc graphJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode intent graph: %w", err)
	}
	g := NewGraph()
	for _, n := range doc.Nodes {
		if _, dup := g.index[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %d", ErrMalformedGraph, n.ID)
		}
		g.addNode(Node{ID: n.ID, Word: n.Word, Start: n.Start, Final: n.Final})
	}
	for _, l := range doc.Links {
		i, ok := g.index[l.Source]
		if !ok {
			return nil, fmt.Errorf("%w: link from unknown node %d", ErrMalformedGraph, l.Source)
		}
		if _, ok := g.index[l.Target]; !ok {
			return nil, fmt.Errorf("%w: link to unknown node %d", ErrMalformedGraph, l.Target)
		}
		g.out[i] = append(g.out[i], Edge{From: l.Source, To: l.Target, OLabel: l.OLabel, ILabel: l.ILabel})
	}
	return g, nil
}

// Write encodes the graph as node-link JSON.
func (g *Graph) Write(w io.Writer) error {
	doc := graphJSON{
		Directed: true,
		Graph:    map[string]any{},
		Nodes:    make([]graphNodeJSON, 0, len(g.nodes)),
		Links:    make([]graphLinkJSON, 0, g.NumEdges()),
	}
	for _, n := range g.nodes {
		doc.Nodes = append(doc.Nodes, graphNodeJSON{ID: n.ID, Word: n.Word, Start: n.Start, Final: n.Final})
	}
	for _, edges := range g.out {
		for _, e := range edges {
			doc.Links = append(doc.Links, graphLinkJSON{Source: e.From, Target: e.To, OLabel: e.OLabel, ILabel: e.ILabel})
		}
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode intent graph: %w", err)
	}
	return nil
}
