package canon

import (
	"fmt"
	"strings"

	"github.com/puckline/matchup/models"
)

// teamAliases lists every known spelling per franchise: legacy and
// site-specific abbreviations, city and nickname forms, and the codes of
// relocated franchises. The canonical code itself is added automatically.
var teamAliases = map[models.TeamCode][]string{
	models.TeamANA: {"ANH", "Anaheim", "Ducks", "Anaheim Ducks", "Mighty Ducks"},
	models.TeamBOS: {"Boston", "Bruins", "Boston Bruins"},
	models.TeamBUF: {"Buffalo", "Sabres", "Buffalo Sabres"},
	models.TeamCGY: {"CAL", "CLG", "Calgary", "Flames", "Calgary Flames"},
	models.TeamCAR: {"Carolina", "Hurricanes", "Canes", "Carolina Hurricanes", "HFD", "HAR"},
	models.TeamCHI: {"Chicago", "Blackhawks", "Chicago Blackhawks"},
	models.TeamCOL: {"Colorado", "Avalanche", "Avs", "Colorado Avalanche", "QUE"},
	models.TeamCBJ: {"CLB", "CLS", "Columbus", "Blue Jackets", "Columbus Blue Jackets"},
	models.TeamDAL: {"Dallas", "Stars", "Dallas Stars", "MNS"},
	models.TeamDET: {"Detroit", "Red Wings", "Detroit Red Wings"},
	models.TeamEDM: {"Edmonton", "Oilers", "Edmonton Oilers"},
	models.TeamFLA: {"FLO", "FLR", "Florida", "Panthers", "Florida Panthers"},
	models.TeamLAK: {"LA", "L.A.", "L.A", "LAS", "Los Angeles", "Kings", "LA Kings", "Los Angeles Kings"},
	models.TeamMIN: {"MNW", "Minnesota", "Wild", "Minnesota Wild"},
	models.TeamMTL: {"MON", "MTR", "Montreal", "Montréal", "Canadiens", "Habs", "Montreal Canadiens", "Montréal Canadiens"},
	models.TeamNJD: {"NJ", "N.J.", "N.J", "NJE", "New Jersey", "Devils", "New Jersey Devils"},
	models.TeamNSH: {"NAS", "NASH", "Nashville", "Predators", "Preds", "Nashville Predators"},
	models.TeamNYI: {"NYIS", "NY Islanders", "Islanders", "New York Islanders"},
	models.TeamNYR: {"NYRS", "NY Rangers", "Rangers", "New York Rangers"},
	models.TeamOTT: {"Ottawa", "Senators", "Sens", "Ottawa Senators"},
	models.TeamPHI: {"PHL", "Philadelphia", "Flyers", "Philadelphia Flyers"},
	models.TeamPIT: {"Pittsburgh", "Penguins", "Pens", "Pittsburgh Penguins"},
	models.TeamSJS: {"SJ", "S.J.", "S.J", "SJ Sharks", "San Jose", "Sharks", "San Jose Sharks"},
	models.TeamSEA: {"SEK", "Seattle", "Kraken", "Seattle Kraken"},
	models.TeamSTL: {"St. Louis", "St Louis", "Saint Louis", "Blues", "St. Louis Blues", "St Louis Blues"},
	models.TeamTBL: {"TB", "T.B.", "T.B", "TBY", "Tampa", "Tampa Bay", "Lightning", "Bolts", "Tampa Bay Lightning"},
	models.TeamTOR: {"Toronto", "Maple Leafs", "Leafs", "Toronto Maple Leafs"},
	models.TeamUTA: {"UTAH", "UHC", "Utah Hockey Club", "Utah Mammoth", "Mammoth", "ARI", "ARZ", "PHX", "Arizona", "Coyotes", "Arizona Coyotes", "Phoenix Coyotes"},
	models.TeamVAN: {"Vancouver", "Canucks", "Vancouver Canucks"},
	models.TeamVGK: {"VEG", "VGS", "LV", "Vegas", "Las Vegas", "Golden Knights", "Vegas Golden Knights"},
	models.TeamWPG: {"WIN", "WPJ", "Winnipeg", "Jets", "Winnipeg Jets", "ATL", "Atlanta Thrashers"},
	models.TeamWSH: {"WAS", "WSN", "Washington", "Capitals", "Caps", "Washington Capitals"},
}

var teamIndex = buildTeamIndex()

func buildTeamIndex() map[string]models.TeamCode {
	idx := make(map[string]models.TeamCode, len(teamAliases)*6)
	add := func(alias string, code models.TeamCode) {
		k := lookupKey(alias)
		if prev, ok := idx[k]; ok && prev != code {
			panic(fmt.Sprintf("canon: team alias %q maps to both %s and %s", alias, prev, code))
		}
		idx[k] = code
	}
	for code, aliases := range teamAliases {
		add(string(code), code)
		for _, a := range aliases {
			add(a, code)
		}
	}
	return idx
}

// Team returns the canonical franchise code for raw. Lookup is
// case-insensitive and ignores surrounding and repeated whitespace. A raw
// value that is not in the alias table comes back trimmed and upper-cased.
func Team(raw string) string {
	if code, ok := teamIndex[lookupKey(raw)]; ok {
		return string(code)
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}

// KnownTeam reports whether raw resolves through the alias table.
func KnownTeam(raw string) bool {
	_, ok := teamIndex[lookupKey(raw)]
	return ok
}
