package refdata

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Content file names inside the reference data directory.
const (
	MonstersFile = "monsters.yaml"
	ItemsFile    = "items.yaml"
	RecipesFile  = "recipes.yaml"
	MapFile      = "map.yaml"
)

// Store holds all reference data indexed by id. A Store is immutable after
// construction and safe for concurrent use.
type Store struct {
	monsters map[string]*MonsterTemplate
	items    map[string]*ItemTemplate
	recipes  map[string]*Recipe
	// recipeOrder preserves file order for listing.
	recipeOrder []*Recipe
	worldMap    *Map
}

// NewStore indexes and cross-validates the given reference data.
//
// Precondition: worldMap must be non-nil.
// Postcondition: Returns a Store or an error on the first duplicate id,
// invalid record, or dangling reference (drop, spawn, or recipe naming an
// unknown id).
func NewStore(monsters []*MonsterTemplate, items []*ItemTemplate, recipes []*Recipe, worldMap *Map) (*Store, error) {
	if worldMap == nil {
		return nil, fmt.Errorf("refdata: map must not be nil")
	}
	s := &Store{
		monsters: make(map[string]*MonsterTemplate, len(monsters)),
		items:    make(map[string]*ItemTemplate, len(items)),
		recipes:  make(map[string]*Recipe, len(recipes)),
		worldMap: worldMap,
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.items[it.ID]; dup {
			return nil, fmt.Errorf("refdata: item id %q already registered", it.ID)
		}
		s.items[it.ID] = it
	}
	for _, m := range monsters {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.monsters[m.ID]; dup {
			return nil, fmt.Errorf("refdata: monster id %q already registered", m.ID)
		}
		for _, d := range m.Drops {
			if _, ok := s.items[d.ItemID]; !ok {
				return nil, fmt.Errorf("refdata: monster %q drops unknown item %q", m.ID, d.ItemID)
			}
		}
		s.monsters[m.ID] = m
	}
	for _, r := range recipes {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.recipes[r.ID]; dup {
			return nil, fmt.Errorf("refdata: recipe id %q already registered", r.ID)
		}
		for id := range r.Requirements() {
			if _, ok := s.items[id]; !ok {
				return nil, fmt.Errorf("refdata: recipe %q needs unknown item %q", r.ID, id)
			}
		}
		if _, ok := s.items[r.Result.ItemID]; !ok {
			return nil, fmt.Errorf("refdata: recipe %q yields unknown item %q", r.ID, r.Result.ItemID)
		}
		s.recipes[r.ID] = r
		s.recipeOrder = append(s.recipeOrder, r)
	}
	if err := worldMap.Validate(); err != nil {
		return nil, err
	}
	for _, a := range worldMap.SpawnAreas {
		for _, id := range a.MonsterIDs {
			if _, ok := s.monsters[id]; !ok {
				return nil, fmt.Errorf("refdata: spawn area %q names unknown monster %q", a.Area, id)
			}
		}
	}
	return s, nil
}

// Monster returns the template for id and whether it was found.
func (s *Store) Monster(id string) (*MonsterTemplate, bool) {
	m, ok := s.monsters[id]
	return m, ok
}

// Item returns the template for id and whether it was found.
func (s *Store) Item(id string) (*ItemTemplate, bool) {
	it, ok := s.items[id]
	return it, ok
}

// Recipe returns the recipe for id and whether it was found.
func (s *Store) Recipe(id string) (*Recipe, bool) {
	r, ok := s.recipes[id]
	return r, ok
}

// Recipes returns every recipe in file order.
func (s *Store) Recipes() []*Recipe {
	out := make([]*Recipe, len(s.recipeOrder))
	copy(out, s.recipeOrder)
	return out
}

// Map returns the shared map.
func (s *Store) Map() *Map {
	return s.worldMap
}

// MonsterCount returns the number of registered monster templates.
func (s *Store) MonsterCount() int { return len(s.monsters) }

// ItemCount returns the number of registered item templates.
func (s *Store) ItemCount() int { return len(s.items) }

type monstersFile struct {
	Monsters []*MonsterTemplate `yaml:"monsters"`
}

type itemsFile struct {
	Items []*ItemTemplate `yaml:"items"`
}

type recipesFile struct {
	Recipes []*Recipe `yaml:"recipes"`
}

type mapFile struct {
	Map *Map `yaml:"map"`
}

// Load reads monsters.yaml, items.yaml, recipes.yaml, and map.yaml from dir.
//
// Precondition: dir must be a readable directory containing all four files.
// Postcondition: Returns a validated Store, or an error naming the failing file.
func Load(dir string) (*Store, error) {
	var mf monstersFile
	if err := readYAML(filepath.Join(dir, MonstersFile), &mf); err != nil {
		return nil, err
	}
	var itf itemsFile
	if err := readYAML(filepath.Join(dir, ItemsFile), &itf); err != nil {
		return nil, err
	}
	var rf recipesFile
	if err := readYAML(filepath.Join(dir, RecipesFile), &rf); err != nil {
		return nil, err
	}
	var wf mapFile
	if err := readYAML(filepath.Join(dir, MapFile), &wf); err != nil {
		return nil, err
	}
	if wf.Map == nil {
		return nil, fmt.Errorf("loading %q: missing top-level map key", filepath.Join(dir, MapFile))
	}
	s, err := NewStore(mf.Monsters, itf.Items, rf.Recipes, wf.Map)
	if err != nil {
		return nil, fmt.Errorf("loading reference data from %q: %w", dir, err)
	}
	return s, nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %q: %w", path, err)
	}
	return nil
}
