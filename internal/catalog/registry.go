// Package catalog provides a local, file-backed creature provider.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/cory-johannsen/battlesim/internal/game/creature"
)

// ErrNotFound is returned when an identifier matches no creature.
var ErrNotFound = errors.New("creature not found")

// Registry holds creatures keyed by case-folded name and by numeric ID.
// It is read-only after loading and safe for concurrent Resolve calls.
type Registry struct {
	byName map[string]*creature.Creature
	byID   map[int]*creature.Creature
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*creature.Creature),
		byID:   make(map[int]*creature.Creature),
	}
}

func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Register adds c to the registry.
//
// Precondition: c must not be nil.
// Postcondition: Returns an error if c is invalid or its name or non-zero ID
// is already registered; the registry is unchanged on error.
func (r *Registry) Register(c *creature.Creature) error {
	if err := c.Validate(); err != nil {
		return err
	}
	key := foldName(c.Name)
	if _, dup := r.byName[key]; dup {
		return fmt.Errorf("duplicate creature name %q", c.Name)
	}
	if c.ID != 0 {
		if _, dup := r.byID[c.ID]; dup {
			return fmt.Errorf("duplicate creature id %d (%q)", c.ID, c.Name)
		}
		r.byID[c.ID] = c
	}
	r.byName[key] = c
	return nil
}

// Resolve returns the creature named or numbered by id. Names match
// case-insensitively; an all-digit id is looked up by numeric ID.
//
// Postcondition: Returns the Creature or an error wrapping ErrNotFound.
func (r *Registry) Resolve(ctx context.Context, id string) (*creature.Creature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n, err := strconv.Atoi(strings.TrimSpace(id)); err == nil {
		if c, ok := r.byID[n]; ok {
			return c, nil
		}
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, n)
	}
	if c, ok := r.byName[foldName(id)]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
}

// Names returns all registered creature names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for _, c := range r.byName {
		out = append(out, c.Name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered creatures.
func (r *Registry) Len() int {
	return len(r.byName)
}

// LoadDirectory reads every *.yaml file in dir as one creature and returns a
// populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error naming the first
// file that fails to read, parse, validate or register.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading creature dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		c, err := creature.LoadFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
	}
	return reg, nil
}
