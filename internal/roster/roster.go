// Package roster holds the immutable set of followed players and their
// fantasy team assignments.
package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Unassigned is the group reported for a followed player with no team.
const Unassigned = "Unassigned"

// Roster answers membership and group lookups. It is never mutated after
// construction and is safe for concurrent reads.
type Roster struct {
	followed map[string]struct{}
	groups   map[string]string
}

// New builds a Roster from the followed players and a player->team map.
func New(players []string, groups map[string]string) *Roster {
	r := &Roster{
		followed: make(map[string]struct{}, len(players)),
		groups:   make(map[string]string, len(groups)),
	}
	for _, p := range players {
		if p = strings.TrimSpace(p); p != "" {
			r.followed[p] = struct{}{}
		}
	}
	for p, g := range groups {
		if g = strings.TrimSpace(g); g != "" {
			r.groups[p] = g
		}
	}
	return r
}

// Follows reports whether subject is on the roster.
func (r *Roster) Follows(subject string) bool {
	_, ok := r.followed[subject]
	return ok
}

// GroupOf returns the subject's team, or Unassigned.
func (r *Roster) GroupOf(subject string) string {
	if g, ok := r.groups[subject]; ok {
		return g
	}
	return Unassigned
}

// Subjects returns the followed players sorted by name.
func (r *Roster) Subjects() []string {
	out := make([]string, 0, len(r.followed))
	for s := range r.followed {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Groups returns the distinct teams referenced by followed players, sorted.
func (r *Roster) Groups() []string {
	seen := make(map[string]struct{})
	for s := range r.followed {
		seen[r.GroupOf(s)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Load reads the roster file and the group map file. Files ending in .yaml
// or .yml are parsed as YAML; everything else as JSON with comments and
// trailing commas allowed. An empty groupsPath yields no assignments.
func Load(rosterPath, groupsPath string) (*Roster, error) {
	var players []string
	if err := decodeFile(rosterPath, &players); err != nil {
		return nil, fmt.Errorf("%w: roster %s: %w", ErrLoad, rosterPath, err)
	}
	if len(players) == 0 {
		return nil, fmt.Errorf("%w: roster %s lists no players", ErrEmptyRoster, rosterPath)
	}

	groups := map[string]string{}
	if groupsPath != "" {
		if err := decodeFile(groupsPath, &groups); err != nil {
			return nil, fmt.Errorf("%w: group map %s: %w", ErrLoad, groupsPath, err)
		}
	}
	return New(players, groups), nil
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	default:
		return json.Unmarshal(jsonc.ToJSON(data), v)
	}
}
