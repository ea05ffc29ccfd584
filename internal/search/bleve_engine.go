package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/jaenan/internal/alert"
)

type bleveEngine struct {
	idx bleve.Index
}

// NewBleveEngine creates a memory-only index.
func NewBleveEngine() (Searcher, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}
	return &bleveEngine{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	body := bleve.NewTextFieldMapping()
	body.Analyzer = standard.Name
	body.Store = true

	locations := bleve.NewTextFieldMapping()
	locations.Analyzer = standard.Name
	locations.Store = true

	// Stored verbatim so results can be rebuilt without a second lookup.
	stored := bleve.NewTextFieldMapping()
	stored.Index = false
	stored.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("body", body)
	dm.AddFieldMappingsAt("locations", locations)
	dm.AddFieldMappingsAt("text", stored)
	dm.AddFieldMappingsAt("sent_at", stored)
	dm.AddFieldMappingsAt("message_id", stored)

	im.DefaultMapping = dm
	return im
}

func (b *bleveEngine) Index(msgs []alert.Message) error {
	batch := b.idx.NewBatch()
	for _, m := range msgs {
		title, body, _ := alert.SplitTitle(m.Text)
		if err := batch.Index(DocID(m), map[string]any{
			"title":      title,
			"body":       body,
			"locations":  m.LocationString(),
			"text":       m.Text,
			"sent_at":    m.SentAt,
			"message_id": m.ID,
		}); err != nil {
			return fmt.Errorf("indexing message: %w", err)
		}
	}
	return b.idx.Batch(batch)
}

func (b *bleveEngine) Search(query string, limit int) ([]*Result, error) {
	if tooShort(query) {
		return []*Result{}, nil
	}
	tokens := tokenize(query)

	var qs []bleveQuery.Query
	for _, tok := range tokens {
		for _, f := range []struct {
			field string
			boost float64
		}{
			{"title", 4.0},
			{"body", 2.0},
			{"locations", 1.0},
		} {
			mq := bleve.NewMatchQuery(tok)
			mq.SetField(f.field)
			mq.SetBoost(f.boost)
			qs = append(qs, mq)

			pq := bleve.NewPrefixQuery(tok)
			pq.SetField(f.field)
			pq.SetBoost(f.boost * 0.8)
			qs = append(qs, pq)
		}
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	req.Fields = []string{"text", "locations", "sent_at", "message_id"}
	res, err := b.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		m := alert.Message{}
		if v, ok := h.Fields["text"].(string); ok {
			m.Text = v
		}
		if v, ok := h.Fields["locations"].(string); ok {
			m.Locations = alert.SplitLocations(v)
		}
		if v, ok := h.Fields["sent_at"].(string); ok {
			m.SentAt = v
		}
		if v, ok := h.Fields["message_id"].(string); ok {
			m.ID = v
		}
		r := &Result{
			Message: m,
			Score:   h.Score,
			Snippet: bestSnippet(alert.Body(m), tokens, 120),
		}
		if scored := scoreMessage(m, tokens); scored != nil {
			r.Matches = scored.Matches
		}
		out = append(out, r)
	}
	return out, nil
}

func (b *bleveEngine) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	return int(n), err
}

func (b *bleveEngine) Close() error {
	return b.idx.Close()
}
