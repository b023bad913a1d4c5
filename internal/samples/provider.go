package samples

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/josephgoksu/officekit/internal/logger"
)

// DefaultLimit is the number of samples handed to code generation.
const DefaultLimit = 2

// Options configure a Provider.
type Options struct {
	Fs       afero.Fs           // filesystem for Dir; defaults to the OS filesystem
	Dir      string             // extra catalogues; entries override builtin samples by ID
	Embedder embedding.Embedder // optional; enables semantic ranking
}

// Provider serves samples and ranks them against a request.
type Provider struct {
	samples  []Sample
	byID     map[string]int
	embedder embedding.Embedder
	log      *zap.Logger

	mu      sync.Mutex
	vectors map[string][]float64
}

// NewProvider loads the builtin catalogue plus any directory override.
func NewProvider(opts Options) (*Provider, error) {
	all, err := LoadBuiltin()
	if err != nil {
		return nil, err
	}
	if opts.Dir != "" {
		fsys := opts.Fs
		if fsys == nil {
			fsys = afero.NewOsFs()
		}
		extra, err := LoadDir(fsys, opts.Dir)
		if err != nil {
			return nil, err
		}
		all = append(all, extra...)
	}
	return newProvider(all, opts.Embedder), nil
}

// NewStaticProvider serves exactly the given samples. Later duplicates of an ID win.
func NewStaticProvider(samples []Sample) *Provider {
	return newProvider(samples, nil)
}

func newProvider(all []Sample, embedder embedding.Embedder) *Provider {
	p := &Provider{
		byID:     make(map[string]int, len(all)),
		embedder: embedder,
		log:      logger.Named("samples"),
		vectors:  make(map[string][]float64),
	}
	for _, s := range all {
		if i, ok := p.byID[s.ID]; ok {
			p.samples[i] = s
			continue
		}
		p.byID[s.ID] = len(p.samples)
		p.samples = append(p.samples, s)
	}
	return p
}

// All returns every sample, optionally restricted to one host.
func (p *Provider) All(host string) []Sample {
	out := make([]Sample, 0, len(p.samples))
	for _, s := range p.samples {
		if host == "" || strings.EqualFold(s.Host, host) {
			out = append(out, s)
		}
	}
	return out
}

// Get returns the sample with the given ID.
func (p *Provider) Get(id string) (Sample, bool) {
	i, ok := p.byID[id]
	if !ok {
		return Sample{}, false
	}
	return p.samples[i], true
}

// Relevant returns up to q.Limit samples for q.Host whose custom-function flag
// matches q.CustomFunction, best first. Unknown hosts yield no samples.
func (p *Provider) Relevant(ctx context.Context, q Query) ([]Match, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	var candidates []Sample
	for _, s := range p.samples {
		if strings.EqualFold(s.Host, q.Host) && s.CustomFunction == q.CustomFunction {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	scores := lexicalScores(q.Text, candidates)
	if p.embedder != nil && strings.TrimSpace(q.Text) != "" {
		semantic, err := p.semanticScores(ctx, q.Text, candidates)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.log.Warn("embedding ranking unavailable, using lexical ranking", zap.Error(err))
		} else {
			scores = semantic
		}
	}

	matches := make([]Match, len(candidates))
	for i, s := range candidates {
		matches[i] = Match{Sample: s, Score: scores[i]}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Sample.ID < matches[j].Sample.ID
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// semanticScores ranks by cosine similarity. Sample vectors are computed once and cached.
func (p *Provider) semanticScores(ctx context.Context, text string, candidates []Sample) ([]float64, error) {
	p.mu.Lock()
	var missing []Sample
	for _, s := range candidates {
		if _, ok := p.vectors[s.ID]; !ok {
			missing = append(missing, s)
		}
	}
	p.mu.Unlock()

	inputs := make([]string, 0, len(missing)+1)
	inputs = append(inputs, text)
	for _, s := range missing {
		inputs = append(inputs, s.document())
	}

	vecs, err := p.embedder.EmbedStrings(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("embed samples: %w", err)
	}
	if len(vecs) != len(inputs) {
		return nil, fmt.Errorf("embed samples: got %d vectors for %d inputs", len(vecs), len(inputs))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for i, s := range missing {
		p.vectors[s.ID] = vecs[i+1]
	}
	scores := make([]float64, len(candidates))
	for i, s := range candidates {
		scores[i] = cosineSimilarity(vecs[0], p.vectors[s.ID])
	}
	return scores, nil
}

// lexicalScores is the fraction of a sample's distinct terms found in text.
func lexicalScores(text string, candidates []Sample) []float64 {
	query := termSet(text)
	scores := make([]float64, len(candidates))
	for i, s := range candidates {
		doc := termSet(s.document())
		if len(doc) == 0 {
			continue
		}
		hits := 0
		for t := range doc {
			if _, ok := query[t]; ok {
				hits++
			}
		}
		scores[i] = float64(hits) / float64(len(doc))
	}
	return scores
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "the": {}, "of": {}, "to": {}, "in": {}, "on": {},
	"for": {}, "with": {}, "that": {}, "is": {}, "it": {}, "by": {}, "from": {}, "into": {},
	"add": {}, "set": {}, "get": {}, "use": {}, "make": {}, "create": {},
}

func termSet(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		set[strings.TrimSuffix(f, "s")] = struct{}{}
	}
	return set
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
