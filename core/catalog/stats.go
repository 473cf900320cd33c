// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"slices"
	"strings"
)

// Counts tallies messages by state.
type Counts struct {
	Total      int `json:"total"`
	Finished   int `json:"finished"`
	Unfinished int `json:"unfinished"`
	Retired    int `json:"retired"` // vanished or obsolete
}

// Percent returns the share of active messages that are finished, 0 to 100.
func (c Counts) Percent() float64 {
	active := c.Total - c.Retired
	if active == 0 {
		return 0
	}

	return float64(c.Finished) * 100 / float64(active)
}

func (c *Counts) add(r *Record) {
	c.Total++

	switch {
	case !r.Type.Active():
		c.Retired++
	case r.Usable():
		c.Finished++
	default:
		c.Unfinished++
	}
}

// ContextStats is the Counts of one context.
type ContextStats struct {
	Name string `json:"name"`
	Counts
}

// Stats summarises a catalogue.
type Stats struct {
	Locale string `json:"locale"`
	Counts
	Conflicts int            `json:"conflicts"`
	Contexts  []ContextStats `json:"contexts"`
}

// Stats counts the messages of the catalogue. A finished message with an
// empty translation counts as unfinished, because lookups fall back for it.
func (c *Catalog) Stats() Stats {
	s := Stats{Locale: c.tag.String(), Conflicts: len(c.conflicts)}

	byName := make(map[string]int)

	for i := range c.records {
		r := &c.records[i]

		j, ok := byName[r.Context]
		if !ok {
			j = len(s.Contexts)
			byName[r.Context] = j
			s.Contexts = append(s.Contexts, ContextStats{Name: r.Context})
		}

		s.Counts.add(r)
		s.Contexts[j].Counts.add(r)
	}

	slices.SortFunc(s.Contexts, func(a, b ContextStats) int {
		return strings.Compare(a.Name, b.Name)
	})

	return s
}
