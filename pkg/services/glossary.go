package services

import (
	"fmt"
	"os"
	"strings"

	"hundred-minds/pkg/logger"
	"hundred-minds/pkg/models"

	"gopkg.in/yaml.v3"
)

// Glossary is an immutable, ordered set of glossary entries keyed by term.
type Glossary struct {
	entries []models.GlossaryEntry
	byTerm  map[string]int
}

// LoadGlossary reads a YAML list of entries from path. A missing file gives
// an empty glossary; a file that does not parse is an error.
func LoadGlossary(path string, log *logger.Logger) (*Glossary, error) {
	if log == nil {
		log = logger.L()
	}
	log = log.Component("glossary")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("file", path).Msg("glossary file not found, using empty glossary")
			return NewGlossary(nil, log), nil
		}
		return nil, fmt.Errorf("read glossary: %w", err)
	}

	var entries []models.GlossaryEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse glossary %s: %w", path, err)
	}
	return NewGlossary(entries, log), nil
}

// NewGlossary indexes entries. Entries without a term are dropped and the
// first entry wins when a term repeats.
func NewGlossary(entries []models.GlossaryEntry, log *logger.Logger) *Glossary {
	if log == nil {
		log = logger.L()
	}
	g := &Glossary{byTerm: make(map[string]int, len(entries))}
	for _, e := range entries {
		e.Term = strings.TrimSpace(e.Term)
		if e.Term == "" {
			continue
		}
		if _, dup := g.byTerm[e.Term]; dup {
			log.Warn().Str("term", e.Term).Msg("duplicate glossary term ignored")
			continue
		}
		g.byTerm[e.Term] = len(g.entries)
		g.entries = append(g.entries, e)
	}
	return g
}

// All returns the entries in file order.
func (g *Glossary) All() []models.GlossaryEntry {
	out := make([]models.GlossaryEntry, len(g.entries))
	copy(out, g.entries)
	return out
}

// Lookup returns the entry for term.
func (g *Glossary) Lookup(term string) (models.GlossaryEntry, bool) {
	i, ok := g.byTerm[strings.TrimSpace(term)]
	if !ok {
		return models.GlossaryEntry{}, false
	}
	return g.entries[i], true
}

func (g *Glossary) Len() int {
	return len(g.entries)
}
