package join

import "github.com/puckline/matchup/canon"

// AliasGroup is a named set of statistic spellings that describe the same
// thing for matching purposes.
type AliasGroup struct {
	Name    string
	Members []string
}

// AliasGroups is the secondary alias table consulted by the alias tiers.
// Unlike the stat canonicalizer's table, a spelling may belong to several
// groups. Members are stored normalized.
type AliasGroups struct {
	groups   []AliasGroup
	byMember map[string][]int
}

// NewAliasGroups indexes groups. Member spellings are normalized with
// canon.Normalize; group order is kept.
func NewAliasGroups(groups []AliasGroup) *AliasGroups {
	ag := &AliasGroups{
		groups:   make([]AliasGroup, 0, len(groups)),
		byMember: make(map[string][]int),
	}
	for i, g := range groups {
		norm := AliasGroup{Name: g.Name, Members: make([]string, 0, len(g.Members))}
		seen := make(map[string]bool, len(g.Members))
		for _, m := range g.Members {
			n := canon.Normalize(m)
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			norm.Members = append(norm.Members, n)
			ag.byMember[n] = append(ag.byMember[n], i)
		}
		ag.groups = append(ag.groups, norm)
	}
	return ag
}

// groupsOf returns the indexes of the groups containing the normalized
// spelling s, in table order.
func (ag *AliasGroups) groupsOf(s string) []int {
	return ag.byMember[s]
}

// member reports whether group i lists the normalized spelling s.
func (ag *AliasGroups) member(i int, s string) bool {
	for _, m := range ag.groups[i].Members {
		if m == s {
			return true
		}
	}
	return false
}

// Groups returns the normalized groups in table order.
func (ag *AliasGroups) Groups() []AliasGroup {
	out := make([]AliasGroup, len(ag.groups))
	copy(out, ag.groups)
	return out
}

// DefaultAliasGroups is the production alias table. "shots against" and
// "sa" sit in both the shots and the saves groups: a goalie's saves line is
// driven by the shots the opponent puts on net.
var DefaultAliasGroups = NewAliasGroups([]AliasGroup{
	{Name: "shots", Members: []string{
		"Shots on Goal", "SOG", "S", "Shots", "Shot", "Shots on Net", "Shots on Target",
		"Shots Against", "SA",
	}},
	{Name: "faceoffs", Members: []string{
		"Faceoffs Won", "FOW", "FO", "FW", "FO Won", "Faceoffs", "Faceoff Wins", "Face Offs Won",
	}},
	{Name: "hits", Members: []string{
		"Hits", "HIT", "H", "Body Checks",
	}},
	{Name: "points", Members: []string{
		"Points", "PTS", "P", "Total Points", "Power Play Points", "PPP",
	}},
	{Name: "goals", Members: []string{
		"Goals", "G", "Goals Scored", "Anytime Goal", "Anytime Goalscorer",
	}},
	{Name: "assists", Members: []string{
		"Assists", "A", "AST",
	}},
	{Name: "blocks", Members: []string{
		"Blocked Shots", "BLK", "BS", "Blocks", "Shots Blocked",
	}},
	{Name: "goals against", Members: []string{
		"Goals Against", "GA", "Goals Allowed", "GAA",
	}},
	{Name: "saves", Members: []string{
		"Saves", "SV", "SVS", "Goalie Saves", "Saves Made", "Shots Against", "SA",
	}},
})
