package refdata

import (
	"fmt"

	"github.com/cory-johannsen/wisperwind/internal/game/character"
)

// SpawnArea is a map region whose tiles can trigger monster encounters.
type SpawnArea struct {
	Area        string               `yaml:"area" json:"area"`
	Coordinates []character.Position `yaml:"coordinates" json:"coordinates"`
	MonsterIDs  []string             `yaml:"monster_ids" json:"monsterIds"`
}

// Contains reports whether pos is one of the area's coordinates.
func (a *SpawnArea) Contains(pos character.Position) bool {
	for _, c := range a.Coordinates {
		if c == pos {
			return true
		}
	}
	return false
}

// Map is the single shared tile map.
type Map struct {
	Name       string      `yaml:"name" json:"name,omitempty"`
	Width      int         `yaml:"width" json:"width"`
	Height     int         `yaml:"height" json:"height"`
	Tiles      []string    `yaml:"tiles" json:"tiles,omitempty"`
	SpawnAreas []SpawnArea `yaml:"spawn_areas" json:"spawnAreas"`
}

// InBounds reports whether pos lies on the map.
//
// Postcondition: Returns true iff 0 <= X < Width and 0 <= Y < Height.
func (m *Map) InBounds(pos character.Position) bool {
	return pos.X >= 0 && pos.X < m.Width && pos.Y >= 0 && pos.Y < m.Height
}

// SpawnAreaAt returns the first spawn area containing pos.
//
// Postcondition: Returns (area, true) if found, or (nil, false) otherwise.
func (m *Map) SpawnAreaAt(pos character.Position) (*SpawnArea, bool) {
	for i := range m.SpawnAreas {
		if m.SpawnAreas[i].Contains(pos) {
			return &m.SpawnAreas[i], true
		}
	}
	return nil, false
}

// Validate checks the map's invariants.
//
// Postcondition: Returns nil iff Width and Height are >= 1, every tile row
// (if any) is Width runes wide with Height rows, and every spawn coordinate
// lies on the map and every spawn area names at least one monster.
func (m *Map) Validate() error {
	if m.Width < 1 || m.Height < 1 {
		return fmt.Errorf("map: width and height must be >= 1, got %dx%d", m.Width, m.Height)
	}
	if len(m.Tiles) > 0 {
		if len(m.Tiles) != m.Height {
			return fmt.Errorf("map: %d tile rows, want %d", len(m.Tiles), m.Height)
		}
		for i, row := range m.Tiles {
			if n := len([]rune(row)); n != m.Width {
				return fmt.Errorf("map: tile row %d is %d wide, want %d", i, n, m.Width)
			}
		}
	}
	for _, a := range m.SpawnAreas {
		if len(a.MonsterIDs) == 0 {
			return fmt.Errorf("map: spawn area %q must list at least one monster", a.Area)
		}
		for _, c := range a.Coordinates {
			if !m.InBounds(c) {
				return fmt.Errorf("map: spawn area %q coordinate (%d,%d) is off the map", a.Area, c.X, c.Y)
			}
		}
	}
	return nil
}
