package canon

import (
	"testing"

	"github.com/puckline/matchup/models"
)

func TestTeam(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"TOR", "TOR"},
		{"tor", "TOR"},
		{"  Toronto Maple Leafs ", "TOR"},
		{"maple   leafs", "TOR"},
		{"LA", "LAK"},
		{"L.A.", "LAK"},
		{"NJ", "NJD"},
		{"TB", "TBL"},
		{"SJ", "SJS"},
		{"MON", "MTL"},
		{"Montréal", "MTL"},
		{"CLB", "CBJ"},
		{"WAS", "WSH"},
		{"VEG", "VGK"},
		{"ARI", "UTA"},
		{"Phoenix Coyotes", "UTA"},
		{"Utah", "UTA"},
		{"ATL", "WPG"},
		{"St Louis", "STL"},
		{"xyz", "XYZ"},
		{"  Hamilton Tigers ", "HAMILTON TIGERS"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Team(tt.in); got != tt.want {
			t.Errorf("Team(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTeam_EveryCodeIsFixedPoint(t *testing.T) {
	for _, code := range models.AllTeams {
		if got := Team(string(code)); got != string(code) {
			t.Errorf("Team(%q) = %q, want the code itself", code, got)
		}
	}
	if len(teamAliases) != len(models.AllTeams) {
		t.Errorf("alias table covers %d teams, want %d", len(teamAliases), len(models.AllTeams))
	}
}

func TestStat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SOG", "Shots on Goal"},
		{"sog", "Shots on Goal"},
		{"Shots On Goal", "Shots on Goal"},
		{"shots on net", "Shots on Goal"},
		{"FOW", "Faceoffs Won"},
		{"Faceoff Wins", "Faceoffs Won"},
		{"hits", "Hits"},
		{"PTS", "Points"},
		{"G", "Goals"},
		{"AST", "Assists"},
		{"BLK", "Blocked Shots"},
		{"shots blocked", "Blocked Shots"},
		{"GA", "Goals Against"},
		{"goals allowed", "Goals Against"},
		{"SV", "Saves"},
		{"Goalie Saves", "Saves"},
		{"  Power  Play Points ", "Power Play Points"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Stat(tt.in); got != tt.want {
			t.Errorf("Stat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStat_EveryCategoryIsFixedPoint(t *testing.T) {
	for _, cat := range models.AllStats {
		if got := Stat(string(cat)); got != string(cat) {
			t.Errorf("Stat(%q) = %q, want the category itself", cat, got)
		}
	}
}

func TestStat_MissKeepsCase(t *testing.T) {
	// Unlike Team, a missed stat is not upper-cased; the join compares
	// normalized forms, so case never affects matching.
	for in, want := range map[string]string{
		"Time on Ice":        "Time on Ice",
		"  power   PLAY pts": "power PLAY pts",
	} {
		if got := Stat(in); got != want {
			t.Errorf("Stat(%q) = %q, want %q", in, got, want)
		}
		if KnownStat(in) {
			t.Errorf("KnownStat(%q) = true for an unlisted stat", in)
		}
	}
	if got := Team(" hamilton tigers "); got != "HAMILTON TIGERS" {
		t.Errorf("Team miss = %q, want upper-cased pass-through", got)
	}
}

func TestKnown(t *testing.T) {
	for _, in := range []string{"TOR", " maple leafs ", "phx", "Utah Hockey Club"} {
		if !KnownTeam(in) {
			t.Errorf("KnownTeam(%q) = false", in)
		}
	}
	for _, in := range []string{"Shots on Goal", "sog", "Goalie Saves"} {
		if !KnownStat(in) {
			t.Errorf("KnownStat(%q) = false", in)
		}
	}
	if KnownTeam("Hamilton Tigers") || KnownTeam("") {
		t.Error("KnownTeam accepted an unlisted team")
	}
}

var idempotenceInputs = []string{
	"", " ", "TOR", " toronto ", "L.A.", "Hamilton Tigers", "sog",
	"Shots on Goal", "  time on ice  ", "ıstanbul", "straße", "ǅemal",
	"Montréal Canadiens", "123", "st.  louis", "\tFO Won\n",
}

func TestIdempotence(t *testing.T) {
	for _, in := range idempotenceInputs {
		if once, twice := Team(in), Team(Team(in)); once != twice {
			t.Errorf("Team not idempotent for %q: %q then %q", in, once, twice)
		}
		if once, twice := Stat(in), Stat(Stat(in)); once != twice {
			t.Errorf("Stat not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func FuzzTeamIdempotent(f *testing.F) {
	for _, in := range idempotenceInputs {
		f.Add(in)
	}
	f.Fuzz(func(t *testing.T, in string) {
		if once, twice := Team(in), Team(Team(in)); once != twice {
			t.Errorf("Team not idempotent for %q: %q then %q", in, once, twice)
		}
	})
}

func FuzzStatIdempotent(f *testing.F) {
	for _, in := range idempotenceInputs {
		f.Add(in)
	}
	f.Fuzz(func(t *testing.T, in string) {
		if once, twice := Stat(in), Stat(Stat(in)); once != twice {
			t.Errorf("Stat not idempotent for %q: %q then %q", in, once, twice)
		}
	})
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Shots on Goal", "shots on goal"},
		{"Shots-on-Goal", "shots on goal"},
		{" F.O.W. ", "fow"},
		{"Blocked  Shots", "blocked shots"},
		{"Goals/Against", "goals against"},
		{"Points (PTS)!", "points pts"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
