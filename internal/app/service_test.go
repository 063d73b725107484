package app

import (
	"bytes"
	"log"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotdrop/rhasspy-fuzzywuzzy/fuzzywuzzy"
)

func testGraph(t *testing.T, branches ...[2]string) *fuzzywuzzy.Graph {
	t.Helper()
	g := fuzzywuzzy.NewGraph()
	start := g.AddStartNode()
	end := g.AddFinalNode()
	for _, branch := range branches {
		intent, sentence := branch[0], branch[1]
		words := strings.Fields(sentence)
		require.NotEmpty(t, words)
		prev := g.AddNode(words[0])
		require.NoError(t, g.AddEdge(start, prev, fuzzywuzzy.IntentLabelPrefix+intent))
		for _, w := range words[1:] {
			next := g.AddNode(w)
			require.NoError(t, g.AddEdge(prev, next, ""))
			prev = next
		}
		require.NoError(t, g.AddEdge(prev, end, ""))
	}
	return g
}

func TestServiceTrainAndRecognize(t *testing.T) {
	service := NewService(fuzzywuzzy.Config{}, nil)

	count, err := service.Train(testGraph(t, [2]string{"TestIntent", "this is a test"}))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	rec, err := service.Recognize("this is a test", fuzzywuzzy.RecognizeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "TestIntent", rec.Intent.Name)
	assert.Equal(t, 1.0, rec.Intent.Confidence)
}

func TestServiceRecognizeBeforeTrain(t *testing.T) {
	service := NewService(fuzzywuzzy.Config{}, nil)

	_, err := service.Recognize("anything", fuzzywuzzy.RecognizeOptions{})
	require.ErrorIs(t, err, ErrNotTrained)
}

func TestServiceCachesUnfilteredQueries(t *testing.T) {
	service := NewService(fuzzywuzzy.Config{}, nil)
	_, err := service.Train(testGraph(t, [2]string{"TestIntent", "this is a test"}))
	require.NoError(t, err)

	first, err := service.Recognize("this iz a test", fuzzywuzzy.RecognizeOptions{})
	require.NoError(t, err)
	second, err := service.Recognize("this iz a test", fuzzywuzzy.RecognizeOptions{})
	require.NoError(t, err)

	// The cached result is returned verbatim, timing included.
	assert.Equal(t, first, second)
}

func TestServiceRetrainReplacesSnapshot(t *testing.T) {
	service := NewService(fuzzywuzzy.Config{}, nil)

	_, err := service.Train(testGraph(t, [2]string{"OldIntent", "hello there"}))
	require.NoError(t, err)
	_, err = service.Recognize("hello there", fuzzywuzzy.RecognizeOptions{})
	require.NoError(t, err)

	_, err = service.Train(testGraph(t, [2]string{"NewIntent", "hello there"}))
	require.NoError(t, err)

	rec, err := service.Recognize("hello there", fuzzywuzzy.RecognizeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "NewIntent", rec.Intent.Name)
}

func TestServiceIntentFilter(t *testing.T) {
	service := NewService(fuzzywuzzy.Config{}, nil)
	_, err := service.Train(testGraph(t,
		[2]string{"IntentA", "this is a test"},
		[2]string{"IntentB", "this is a test"},
	))
	require.NoError(t, err)

	rec, err := service.Recognize("this is a test", fuzzywuzzy.RecognizeOptions{
		IntentFilter: func(intent string) bool { return intent == "IntentB" },
	})
	require.NoError(t, err)
	assert.Equal(t, "IntentB", rec.Intent.Name)

	_, err = service.Recognize("this is a test", fuzzywuzzy.RecognizeOptions{
		IntentFilter: func(string) bool { return false },
	})
	require.ErrorIs(t, err, fuzzywuzzy.ErrNoMatch)
}

func TestServiceLoadFromStore(t *testing.T) {
	graph := testGraph(t, [2]string{"TestIntent", "this is a test"})

	var cfg fuzzywuzzy.Config
	cfg.ApplyDefaults()
	set, err := fuzzywuzzy.Train(graph, cfg.Normalizer())
	require.NoError(t, err)

	store, err := fuzzywuzzy.OpenStore(filepath.Join(t.TempDir(), "examples.db"))
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.WriteExamples(set, cfg.Normalizer().Signature()))

	service := NewService(cfg, nil)
	count, err := service.Load(graph, store)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	rec, err := service.Recognize("this is a test", fuzzywuzzy.RecognizeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "TestIntent", rec.Intent.Name)
}

func TestServiceLoadLogsNormalizerMismatch(t *testing.T) {
	graph := testGraph(t, [2]string{"TestIntent", "this is a test"})

	var cfg fuzzywuzzy.Config
	cfg.ApplyDefaults()
	set, err := fuzzywuzzy.Train(graph, cfg.Normalizer())
	require.NoError(t, err)

	store, err := fuzzywuzzy.OpenStore(filepath.Join(t.TempDir(), "examples.db"))
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.WriteExamples(set, "nfkc|upper|strip-punct"))

	var buf bytes.Buffer
	service := NewService(cfg, log.New(&buf, "", 0))
	_, err = service.Load(graph, store)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "normalizer mismatch")
}
