// Package testutil provides test helpers for on-disk creature content.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Creature fixtures in the content file format.
const (
	SquirtleYAML = `
id: 7
name: squirtle
types: [water]
stats: {hp: 44, attack: 48, defense: 65, special-attack: 50, special-defense: 64, speed: 43}
moves:
  - {name: water-gun, type: water, power: 40, damage_class: special}
`
	CharmanderYAML = `
id: 4
name: charmander
types: [fire]
stats: {hp: 39, attack: 52, defense: 43, special-attack: 60, special-defense: 50, speed: 65}
moves:
  - {name: ember, type: fire, power: 40, damage_class: special}
`
)

// WriteFiles writes each name/body pair into a fresh temporary directory and
// returns its path. The directory is removed when the test ends.
//
// Precondition: t must be non-nil; names must be plain file names.
func WriteFiles(t testing.TB, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

// CreatureDir returns a temporary content directory holding the squirtle and
// charmander fixtures.
func CreatureDir(t testing.TB) string {
	t.Helper()
	return WriteFiles(t, map[string]string{
		"squirtle.yaml":   SquirtleYAML,
		"charmander.yaml": CharmanderYAML,
	})
}
