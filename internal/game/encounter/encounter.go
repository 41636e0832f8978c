// Package encounter decides whether stepping onto a tile starts a fight.
package encounter

import (
	"github.com/cory-johannsen/wisperwind/internal/game/character"
	"github.com/cory-johannsen/wisperwind/internal/game/dice"
	"github.com/cory-johannsen/wisperwind/internal/game/refdata"
)

// Rate is the probability that entering a spawn tile starts an encounter.
const Rate = 0.5

// Encounter names the monster chosen for a fight and where it was found.
type Encounter struct {
	Area      string
	MonsterID string
}

// SpawnTable looks up the spawn area covering a tile.
// *refdata.Map satisfies SpawnTable.
type SpawnTable interface {
	SpawnAreaAt(pos character.Position) (*refdata.SpawnArea, bool)
}

// Resolve decides whether moving onto pos triggers an encounter.
//
// The decision draws nothing when pos lies outside every spawn area or when
// the account already holds a session. Otherwise it draws one Float64 for
// the encounter roll and, if that succeeds, one Intn over the area's monster
// list.
//
// Precondition: table and src must be non-nil.
// Postcondition: Returns (encounter, true) iff an encounter fired; the
// chosen MonsterID is always one of the matching area's MonsterIDs.
func Resolve(pos character.Position, table SpawnTable, inSession bool, src dice.Source) (Encounter, bool) {
	if inSession {
		return Encounter{}, false
	}
	area, ok := table.SpawnAreaAt(pos)
	if !ok || len(area.MonsterIDs) == 0 {
		return Encounter{}, false
	}
	if !dice.Chance(src, Rate) {
		return Encounter{}, false
	}
	return Encounter{
		Area:      area.Area,
		MonsterID: area.MonsterIDs[src.Intn(len(area.MonsterIDs))],
	}, true
}
