package catalog

import (
	"sort"
	"strings"
)

// Process is a static catalog entry. Catalog order defines adjacency for auto-selection.
type Process struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Details       []string `json:"details"`
	Inputs        []string `json:"inputs"`
	Output        string   `json:"output,omitempty"`
	DefaultPrompt string   `json:"default_prompt,omitempty"`
}

// RequiresInputs reports whether the process declares at least one required input type.
func (p Process) RequiresInputs() bool {
	return len(p.Inputs) > 0
}

// Catalog is an ordered, immutable list of processes.
type Catalog struct {
	processes []Process
	index     map[string]int
}

func New(processes []Process) Catalog {
	c := Catalog{
		processes: make([]Process, len(processes)),
		index:     make(map[string]int, len(processes)),
	}
	copy(c.processes, processes)
	for i, p := range c.processes {
		c.index[p.ID] = i
	}
	return c
}

// Default returns the built-in STLC catalog.
func Default() Catalog {
	return defaultCatalog
}

func (c Catalog) All() []Process {
	out := make([]Process, len(c.processes))
	copy(out, c.processes)
	return out
}

func (c Catalog) Find(id string) (Process, bool) {
	i, ok := c.index[id]
	if !ok {
		return Process{}, false
	}
	return c.processes[i], true
}

// IndexOf returns the catalog position of id, or -1 when id is unknown.
func (c Catalog) IndexOf(id string) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

func (c Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// SortByOrder returns ids sorted by catalog position. Unknown ids sort last, keeping their relative order.
func (c Catalog) SortByOrder(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := c.IndexOf(out[i]), c.IndexOf(out[j])
		if a < 0 {
			return false
		}
		if b < 0 {
			return true
		}
		return a < b
	})
	return out
}

// DisplayName returns the catalog name, or the id in title case when the id is not in the catalog.
func (c Catalog) DisplayName(id string) string {
	if p, ok := c.Find(id); ok {
		return p.Name
	}
	return TitleCase(id)
}

// TitleCase turns "test-case-generation" into "Test Case Generation".
func TitleCase(id string) string {
	if id == "" {
		return "Unknown Process"
	}
	words := strings.Split(id, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
