package search

import (
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/pders01/jaenan/internal/alert"
)

// Engine scores messages held in memory without an inverted index.
type Engine struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]alert.Message
}

func NewEngine() *Engine {
	return &Engine{docs: make(map[string]alert.Message)}
}

func (e *Engine) Index(msgs []alert.Message) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, m := range msgs {
		id := DocID(m)
		if _, ok := e.docs[id]; !ok {
			e.order = append(e.order, id)
		}
		e.docs[id] = m
	}
	return nil
}

func (e *Engine) DocCount() (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.docs), nil
}

func (e *Engine) Close() error { return nil }

// Search ranks seen messages against query, best first.
func (e *Engine) Search(query string, limit int) ([]*Result, error) {
	if tooShort(query) {
		return []*Result{}, nil
	}
	terms := tokenize(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	e.mu.RLock()
	var results []*Result
	for _, id := range e.order {
		if r := scoreMessage(e.docs[id], terms); r != nil {
			results = append(results, r)
		}
	}
	e.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// scoreMessage weighs title hits over body hits over location hits.
func scoreMessage(m alert.Message, terms []string) *Result {
	var matches []Match
	var total float64

	title, body, _ := alert.SplitTitle(m.Text)
	fields := []struct {
		name   string
		text   string
		weight float64
	}{
		{"title", title, 4.0},
		{"body", body, 2.0},
		{"locations", m.LocationString(), 1.0},
	}
	for _, f := range fields {
		if s := scoreField(f.text, terms, f.weight); s > 0 {
			matches = append(matches, Match{Field: f.name, Text: truncate(f.text, 80), Weight: s})
			total += s
		}
	}
	if total == 0 {
		return nil
	}
	return &Result{
		Message: m,
		Score:   total,
		Snippet: bestSnippet(body, terms, 120),
		Matches: matches,
	}
}

func scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var score float64
	matched := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			score += 2.0
			matched++
		}
		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
				matched++
			case strings.HasPrefix(word, term):
				// Korean particles attach to the noun: 호우가, 호우로
				score += 1.0
				matched++
			case strings.Contains(word, term):
				score += 0.5
				matched++
			}
		}
	}

	if len(terms) > 1 && matched > 1 {
		score *= 1.0 + float64(matched)/float64(len(terms))
	}
	tf := float64(matched) / float64(len(words))
	score *= 1.0 + math.Log(1.0+tf)

	return score * weight
}

// bestSnippet returns the window of words containing the most terms.
func bestSnippet(text string, terms []string, maxRunes int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	window := max(maxRunes/6, 1)
	if window >= len(words) {
		return truncate(strings.TrimSpace(text), maxRunes)
	}

	bestScore, bestStart := 0, 0
	for i := 0; i+window <= len(words); i++ {
		chunk := strings.ToLower(strings.Join(words[i:i+window], " "))
		score := 0
		for _, term := range terms {
			if strings.Contains(chunk, term) {
				score++
			}
		}
		if score > bestScore {
			bestScore, bestStart = score, i
		}
	}
	return truncate(strings.Join(words[bestStart:bestStart+window], " "), maxRunes)
}

// tokenize lowercases text and splits it on anything that is not a letter or
// digit. Single ASCII characters are dropped; a single Hangul syllable is a
// word (비, 눈).
func tokenize(text string) []string {
	var terms []string
	var current strings.Builder

	flush := func() {
		term := current.String()
		current.Reset()
		if term == "" {
			return
		}
		if utf8.RuneCountInString(term) == 1 && term[0] < utf8.RuneSelf {
			return
		}
		terms = append(terms, term)
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()
	return terms
}

// truncate shortens text to maxRunes runes including the ellipsis.
func truncate(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes-1]) + "…"
}
