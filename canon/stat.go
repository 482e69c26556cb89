package canon

import (
	"fmt"

	"github.com/puckline/matchup/models"
)

// statAliases groups the abbreviations and phrasings each source uses for a
// statistic under its canonical category.
var statAliases = map[models.StatCategory][]string{
	models.StatShotsOnGoal: {
		"SOG", "S", "Shots", "Shot", "Shots On Net", "Shots on Target",
		"Player Shots on Goal", "Shots On Goal (SOG)",
	},
	models.StatFaceoffsWon: {
		"FOW", "FO", "FW", "FO Won", "FOs Won", "Faceoffs", "Faceoff Wins",
		"Face Offs Won", "Face-offs Won", "Faceoff Won",
	},
	models.StatHits: {
		"HIT", "H", "Hit", "Body Checks", "Player Hits",
	},
	models.StatPoints: {
		"PTS", "P", "Pts", "Point", "Total Points", "Player Points",
	},
	models.StatGoals: {
		"G", "Goal", "Goals Scored", "Player Goals",
	},
	models.StatAssists: {
		"A", "AST", "Ast", "Assist", "Player Assists",
	},
	models.StatBlockedShots: {
		"BLK", "BS", "BkS", "Blocks", "Blocked", "Shots Blocked", "Blocked Shot",
	},
	models.StatGoalsAgainst: {
		"GA", "Goals Allowed", "Goals Conceded", "Goal Against",
	},
	models.StatSaves: {
		"SV", "SVS", "Save", "Goalie Saves", "Saves Made", "Goaltender Saves",
	},
}

var statIndex = buildStatIndex()

func buildStatIndex() map[string]models.StatCategory {
	idx := make(map[string]models.StatCategory, len(statAliases)*8)
	add := func(alias string, cat models.StatCategory) {
		k := lookupKey(alias)
		if prev, ok := idx[k]; ok && prev != cat {
			panic(fmt.Sprintf("canon: stat alias %q maps to both %q and %q", alias, prev, cat))
		}
		idx[k] = cat
	}
	for cat, aliases := range statAliases {
		add(string(cat), cat)
		for _, a := range aliases {
			add(a, cat)
		}
	}
	return idx
}

// Stat returns the canonical category label for raw. Lookup is
// case-insensitive and ignores surrounding and repeated whitespace. A raw
// value that is not in the alias table is passed through with its
// whitespace trimmed and collapsed; its case is kept.
func Stat(raw string) string {
	if cat, ok := statIndex[lookupKey(raw)]; ok {
		return string(cat)
	}
	return collapse(raw)
}

// KnownStat reports whether raw resolves through the alias table.
func KnownStat(raw string) bool {
	_, ok := statIndex[lookupKey(raw)]
	return ok
}
