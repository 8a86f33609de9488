// Package courts holds the static court topology: which logical courts exist
// for each sport and which of them share floor space.
package courts

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultTopology []byte

var ErrCourtNotFound = errors.New("court not found")

type Sport string

const (
	Basketball Sport = "basketball"
	Badminton  Sport = "badminton"
	Volleyball Sport = "volleyball"
)

// ParseSport accepts any casing of a known sport name.
func ParseSport(raw string) (Sport, error) {
	switch Sport(strings.ToLower(strings.TrimSpace(raw))) {
	case Basketball:
		return Basketball, nil
	case Badminton:
		return Badminton, nil
	case Volleyball:
		return Volleyball, nil
	}
	return "", fmt.Errorf("unknown sport %q", raw)
}

// DisplayName returns the capitalized sport name used in messages.
func (s Sport) DisplayName() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// ID is the stable key of a logical court, e.g. "basketball-half-1".
type ID string

type Court struct {
	ID              ID
	Sport           Sport
	Label           string
	Aliases         []string
	HourlyRateCents int64
}

type courtDoc struct {
	ID              string   `yaml:"id"`
	Sport           string   `yaml:"sport"`
	Label           string   `yaml:"label"`
	Aliases         []string `yaml:"aliases"`
	HourlyRateCents int64    `yaml:"hourly_rate_cents"`
	Overlaps        []string `yaml:"overlaps"`
}

type topologyDoc struct {
	Courts []courtDoc `yaml:"courts"`
}

// Topology is immutable after Load.
type Topology struct {
	order    []ID
	courts   map[ID]Court
	overlaps map[ID][]ID
	labels   map[Sport]map[string]ID
}

// Default returns the built-in MPH hall layout.
func Default() (*Topology, error) {
	return Load(defaultTopology)
}

// LoadFile reads a topology document from disk. An empty path yields Default.
func LoadFile(path string) (*Topology, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topology file: %w", err)
	}
	return Load(data)
}

// Load parses and validates a topology document. Every overlap must be listed
// in both directions and every label and alias must resolve to exactly one
// court of its sport.
func Load(data []byte) (*Topology, error) {
	var doc topologyDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse topology: %w", err)
	}
	if len(doc.Courts) == 0 {
		return nil, errors.New("topology has no courts")
	}

	t := &Topology{
		courts:   make(map[ID]Court, len(doc.Courts)),
		overlaps: make(map[ID][]ID, len(doc.Courts)),
		labels:   make(map[Sport]map[string]ID),
	}

	for _, c := range doc.Courts {
		id := ID(strings.TrimSpace(c.ID))
		if id == "" {
			return nil, errors.New("court id is required")
		}
		if _, dup := t.courts[id]; dup {
			return nil, fmt.Errorf("duplicate court id %q", id)
		}
		sport, err := ParseSport(c.Sport)
		if err != nil {
			return nil, fmt.Errorf("court %q: %w", id, err)
		}
		label := strings.TrimSpace(c.Label)
		if label == "" {
			return nil, fmt.Errorf("court %q: label is required", id)
		}
		if c.HourlyRateCents < 0 {
			return nil, fmt.Errorf("court %q: hourly rate must be 0 or greater", id)
		}

		court := Court{
			ID:              id,
			Sport:           sport,
			Label:           label,
			Aliases:         c.Aliases,
			HourlyRateCents: c.HourlyRateCents,
		}
		t.courts[id] = court
		t.order = append(t.order, id)

		if t.labels[sport] == nil {
			t.labels[sport] = make(map[string]ID)
		}
		for _, name := range append([]string{label, string(id)}, c.Aliases...) {
			key := normalizeLabel(name)
			if key == "" {
				continue
			}
			if existing, ok := t.labels[sport][key]; ok && existing != id {
				return nil, fmt.Errorf("label %q is ambiguous between %q and %q", name, existing, id)
			}
			t.labels[sport][key] = id
		}
	}

	for _, c := range doc.Courts {
		id := ID(strings.TrimSpace(c.ID))
		seen := make(map[ID]struct{}, len(c.Overlaps))
		for _, raw := range c.Overlaps {
			other := ID(strings.TrimSpace(raw))
			if other == id {
				return nil, fmt.Errorf("court %q lists itself as an overlap", id)
			}
			if _, ok := t.courts[other]; !ok {
				return nil, fmt.Errorf("court %q overlaps unknown court %q", id, other)
			}
			if _, dup := seen[other]; dup {
				continue
			}
			seen[other] = struct{}{}
			t.overlaps[id] = append(t.overlaps[id], other)
		}
		sort.Slice(t.overlaps[id], func(i, j int) bool { return t.overlaps[id][i] < t.overlaps[id][j] })
	}

	for id, others := range t.overlaps {
		for _, other := range others {
			if !t.Overlaps(other, id) {
				return nil, fmt.Errorf("overlap %q -> %q is not listed in reverse", id, other)
			}
		}
	}

	return t, nil
}

// OverlapsOf returns the courts that cannot be occupied at the same time as
// id, sorted by id. Unknown ids have no overlaps.
func (t *Topology) OverlapsOf(id ID) []ID {
	others := t.overlaps[id]
	out := make([]ID, len(others))
	copy(out, others)
	return out
}

// Overlaps reports whether a and b share floor space.
func (t *Topology) Overlaps(a, b ID) bool {
	for _, other := range t.overlaps[a] {
		if other == b {
			return true
		}
	}
	return false
}

// Resolve maps a sport and a court label (or alias, or id) to its court.
func (t *Topology) Resolve(sport Sport, label string) (Court, error) {
	byLabel, ok := t.labels[sport]
	if !ok {
		return Court{}, fmt.Errorf("%w: %s %q", ErrCourtNotFound, sport, label)
	}
	id, ok := byLabel[normalizeLabel(label)]
	if !ok {
		return Court{}, fmt.Errorf("%w: %s %q", ErrCourtNotFound, sport, label)
	}
	return t.courts[id], nil
}

func (t *Topology) Court(id ID) (Court, bool) {
	c, ok := t.courts[id]
	return c, ok
}

// Courts returns every court in document order.
func (t *Topology) Courts() []Court {
	out := make([]Court, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.courts[id])
	}
	return out
}

// CourtsForSport returns the courts of one sport in document order.
func (t *Topology) CourtsForSport(sport Sport) []Court {
	var out []Court
	for _, id := range t.order {
		if c := t.courts[id]; c.Sport == sport {
			out = append(out, c)
		}
	}
	return out
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}
