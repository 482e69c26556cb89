// Package join attaches an opponent's defensive rank to each prop record.
//
// Matching runs in strict tiers: exact statistic, phrase containment,
// alias group forward, alias group reverse. The first tier with a candidate
// wins and, within it, the first candidate in defense-list order. No
// scoring is done. Join is pure and safe for concurrent use.
package join

import (
	"strings"

	"github.com/puckline/matchup/canon"
	"github.com/puckline/matchup/models"
)

// Joiner matches props against defense records using one alias table.
type Joiner struct {
	groups *AliasGroups
}

// New returns a Joiner over groups; nil uses DefaultAliasGroups.
func New(groups *AliasGroups) *Joiner {
	if groups == nil {
		groups = DefaultAliasGroups
	}
	return &Joiner{groups: groups}
}

var defaultJoiner = New(nil)

// Join annotates props with ranks from defense using DefaultAliasGroups.
func Join(defense []models.DefenseRecord, props []models.PropRecord) []models.MergedRecord {
	return defaultJoiner.Join(defense, props)
}

// candidate is a defense record prepared for comparison.
type candidate struct {
	stat   string
	groups []int
	rank   string
}

// Join returns one MergedRecord per prop, in prop order. Neither input is
// modified. A prop without an opponent or statistic, or with no matching
// defense record, gets models.RankNA.
func (j *Joiner) Join(defense []models.DefenseRecord, props []models.PropRecord) []models.MergedRecord {
	byTeam := make(map[string][]candidate)
	for _, d := range defense {
		team := canon.Team(d.Team)
		stat := canon.Normalize(d.Stat)
		if team == "" || stat == "" {
			continue
		}
		byTeam[team] = append(byTeam[team], candidate{
			stat:   stat,
			groups: j.groups.groupsOf(stat),
			rank:   d.Rank,
		})
	}

	out := make([]models.MergedRecord, len(props))
	for i, p := range props {
		out[i] = models.MergedRecord{PropRecord: p, DefenseRank: models.RankNA, MatchTier: models.TierNone}

		opp := canon.Team(p.Opponent)
		stat := canon.Normalize(p.Stat)
		if opp == "" || stat == "" {
			continue
		}
		if c, tier, ok := j.match(byTeam[opp], stat); ok {
			out[i].DefenseRank = c.rank
			out[i].MatchTier = tier
		}
	}
	return out
}

// match runs the tiers over the opponent's candidates.
func (j *Joiner) match(cands []candidate, stat string) (candidate, models.MatchTier, bool) {
	if len(cands) == 0 {
		return candidate{}, models.TierNone, false
	}

	// ── 1. Exact ────────────────────────────────────────────────────
	for _, c := range cands {
		if c.stat == stat {
			return c, models.TierExact, true
		}
	}

	// ── 2. Phrase containment ───────────────────────────────────────
	for _, c := range cands {
		if containsPhrase(c.stat, stat) || containsPhrase(stat, c.stat) {
			return c, models.TierSubstring, true
		}
	}

	// ── 3. Alias forward: a group holding the prop stat lists the defense stat
	propGroups := j.groups.groupsOf(stat)
	for _, c := range cands {
		for _, g := range propGroups {
			if j.groups.member(g, c.stat) {
				return c, models.TierAlias, true
			}
		}
	}

	// ── 4. Alias reverse: a sibling of the defense stat appears in the prop stat
	for _, c := range cands {
		for _, g := range c.groups {
			for _, m := range j.groups.groups[g].Members {
				if containsPhrase(stat, m) || containsPhrase(m, stat) {
					return c, models.TierAliasReverse, true
				}
			}
		}
	}

	return candidate{}, models.TierNone, false
}

// containsPhrase reports whether the normalized label s contains sub as a
// run of whole words. "goals against" contains "goals"; "shots on goal"
// does not contain "g".
func containsPhrase(s, sub string) bool {
	if sub == "" {
		return false
	}
	return strings.Contains(" "+s+" ", " "+sub+" ")
}
