// Package catalog holds the static mood and quote tables.
package catalog

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"moodflow/backend/internal/model"
)

type Catalog struct {
	moods  []model.Mood
	byID   map[model.MoodType]model.Mood
	quotes []model.Quote
}

type fileCatalog struct {
	Moods  []model.Mood  `yaml:"moods"`
	Quotes []model.Quote `yaml:"quotes"`
}

func New(moods []model.Mood, quotes []model.Quote) (*Catalog, error) {
	c := &Catalog{
		byID:   make(map[model.MoodType]model.Mood, len(moods)),
		quotes: append([]model.Quote(nil), quotes...),
	}
	for _, mood := range moods {
		if !mood.ID.Valid() {
			return nil, fmt.Errorf("unknown mood id %q", mood.ID)
		}
		if _, exists := c.byID[mood.ID]; exists {
			return nil, fmt.Errorf("duplicate mood id %q", mood.ID)
		}
		c.byID[mood.ID] = mood
		c.moods = append(c.moods, mood)
	}
	return c, nil
}

func Default() *Catalog {
	c, err := New(defaultMoods, defaultQuotes)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a YAML catalog. Moods in the file are merged over the built-in
// entries by id, so every mood stays defined; fields left blank keep their
// built-in value. Quotes in the file replace the built-in list. A missing
// file yields the built-in tables.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var fileData fileCatalog
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}

	moods, err := mergeMoods(defaultMoods, fileData.Moods)
	if err != nil {
		return nil, err
	}
	quotes := fileData.Quotes
	if len(quotes) == 0 {
		quotes = defaultQuotes
	}
	return New(moods, quotes)
}

func mergeMoods(base, overrides []model.Mood) ([]model.Mood, error) {
	merged := append([]model.Mood(nil), base...)
	index := make(map[model.MoodType]int, len(merged))
	for i, mood := range merged {
		index[mood.ID] = i
	}

	seen := make(map[model.MoodType]bool, len(overrides))
	for _, override := range overrides {
		i, ok := index[override.ID]
		if !ok {
			return nil, fmt.Errorf("unknown mood id %q", override.ID)
		}
		if seen[override.ID] {
			return nil, fmt.Errorf("duplicate mood id %q", override.ID)
		}
		seen[override.ID] = true
		merged[i] = overlayMood(merged[i], override)
	}
	return merged, nil
}

func overlayMood(mood, override model.Mood) model.Mood {
	if override.Name != "" {
		mood.Name = override.Name
	}
	if override.Description != "" {
		mood.Description = override.Description
	}
	if override.Icon != "" {
		mood.Icon = override.Icon
	}
	if override.ColorToken != "" {
		mood.ColorToken = override.ColorToken
	}
	if override.PlaylistID != "" {
		mood.PlaylistID = override.PlaylistID
	}
	if len(override.Keywords) > 0 {
		mood.Keywords = append([]string(nil), override.Keywords...)
	}
	return mood
}

func (c *Catalog) Moods() []model.Mood {
	return append([]model.Mood(nil), c.moods...)
}

func (c *Catalog) Mood(id model.MoodType) (model.Mood, bool) {
	mood, ok := c.byID[id]
	return mood, ok
}

// Position returns the display index of a mood, or -1.
func (c *Catalog) Position(id model.MoodType) int {
	for i, mood := range c.moods {
		if mood.ID == id {
			return i
		}
	}
	return -1
}

func (c *Catalog) RandomQuote(r *rand.Rand) (model.Quote, bool) {
	if len(c.quotes) == 0 {
		return model.Quote{}, false
	}
	return c.quotes[r.Intn(len(c.quotes))], true
}
