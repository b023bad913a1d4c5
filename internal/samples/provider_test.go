package samples

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBuiltin(t *testing.T) {
	all, err := LoadBuiltin()
	require.NoError(t, err)

	hosts := map[string]int{}
	seen := map[string]bool{}
	for _, s := range all {
		hosts[s.Host]++
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
		assert.False(t, strings.HasSuffix(s.Code, "\n"), "code for %s should be trimmed", s.ID)
	}
	for _, h := range []string{"Excel", "Word", "PowerPoint", "Outlook"} {
		assert.Positive(t, hosts[h], "no samples for %s", h)
	}
}

func TestNewProvider_DirOverride(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/samples/custom.yaml", []byte(`
samples:
  - id: excel-write-range
    host: Excel
    description: overridden
    code: "// replaced"
  - id: word-footnote
    host: Word
    description: Insert a footnote at the selection
    code: "await Word.run(async () => {});"
`), 0644))
	require.NoError(t, afero.WriteFile(fs, "/samples/README.md", []byte("ignored"), 0644))

	p, err := NewProvider(Options{Fs: fs, Dir: "/samples"})
	require.NoError(t, err)

	s, ok := p.Get("excel-write-range")
	require.True(t, ok)
	assert.Equal(t, "overridden", s.Description)

	_, ok = p.Get("word-footnote")
	assert.True(t, ok)
}

func TestLoadDir_RejectsIncompleteSample(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/s/bad.yml", []byte("samples:\n  - id: x\n    host: Excel\n"), 0644))

	_, err := LoadDir(fs, "/s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs id, host and code")
}

func TestRelevant_FiltersHostAndCustomFunction(t *testing.T) {
	p, err := NewProvider(Options{})
	require.NoError(t, err)
	ctx := context.Background()

	matches, err := p.Relevant(ctx, Query{Text: "custom function that sums a range", Host: "Excel", CustomFunction: true})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.True(t, m.Sample.CustomFunction)
		assert.Equal(t, "Excel", m.Sample.Host)
	}
	assert.Equal(t, "excel-cf-range-sum", matches[0].Sample.ID)

	matches, err = p.Relevant(ctx, Query{Text: "insert a chart for sales data", Host: "excel"})
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "excel-add-chart", matches[0].Sample.ID)
	for _, m := range matches {
		assert.False(t, m.Sample.CustomFunction)
	}

	matches, err = p.Relevant(ctx, Query{Text: "anything", Host: "OneNote"})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRelevant_LimitAndDeterministicTies(t *testing.T) {
	p := NewStaticProvider([]Sample{
		{ID: "b", Host: "Word", Description: "zzz", Code: "1"},
		{ID: "a", Host: "Word", Description: "yyy", Code: "2"},
		{ID: "c", Host: "Word", Description: "xxx", Code: "3"},
	})
	matches, err := p.Relevant(context.Background(), Query{Text: "unrelated", Host: "Word", Limit: 2})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].Sample.ID)
	assert.Equal(t, "b", matches[1].Sample.ID)
}

type fakeEmbedder struct {
	calls int
	fail  bool
}

func (f *fakeEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("quota exceeded")
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		// Two axes: "table" and everything else.
		if strings.Contains(strings.ToLower(t), "table") {
			out[i] = []float64{1, 0}
		} else {
			out[i] = []float64{0, 1}
		}
	}
	return out, nil
}

func TestRelevant_SemanticRankingCachesVectors(t *testing.T) {
	emb := &fakeEmbedder{}
	p := newProvider([]Sample{
		{ID: "w-para", Host: "Word", Description: "paragraph insertion", Code: "1"},
		{ID: "w-table", Host: "Word", Description: "build a table", Code: "2"},
	}, emb)

	matches, err := p.Relevant(context.Background(), Query{Text: "need a table of people", Host: "Word", Limit: 1})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "w-table", matches[0].Sample.ID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)

	_, err = p.Relevant(context.Background(), Query{Text: "another table", Host: "Word"})
	require.NoError(t, err)
	assert.Equal(t, 2, emb.calls)
	assert.Len(t, p.vectors, 2)
}

func TestRelevant_EmbeddingFailureFallsBackToLexical(t *testing.T) {
	p := newProvider([]Sample{
		{ID: "o-subject", Host: "Outlook", Description: "read subject", Code: "1"},
		{ID: "o-body", Host: "Outlook", Description: "prepend body signature", Code: "2"},
	}, &fakeEmbedder{fail: true})

	matches, err := p.Relevant(context.Background(), Query{Text: "append a signature to the body", Host: "Outlook"})
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "o-body", matches[0].Sample.ID)
}

func TestAll(t *testing.T) {
	p := NewStaticProvider([]Sample{
		{ID: "1", Host: "Word", Code: "x"},
		{ID: "2", Host: "Excel", Code: "y"},
	})
	assert.Len(t, p.All(""), 2)
	assert.Len(t, p.All("word"), 1)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float64{1}, []float64{1, 2}))
	assert.Equal(t, 0.0, cosineSimilarity([]float64{0, 0}, []float64{1, 2}))
}
