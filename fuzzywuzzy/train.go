package fuzzywuzzy

// Train expands the intent graph into a candidate table. Sentence text is
// normalized before keying so that query-time normalization finds exact
// matches; the raw graph words stay reachable through the stored paths.
func Train(g *Graph, norm *Normalizer) (*ExampleSet, error) {
	if norm == nil {
		norm = NewNormalizer()
	}
	set := NewExampleSet()
	err := GenerateExamples(g, func(ex Example) error {
		set.Add(ex.Intent, norm.Normalize(ex.Text), ex.Path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}
