package models

// TeamCode is a canonical franchise code (e.g. "TOR").
type TeamCode string

// Current franchise codes. Every team alias resolves to one of these.
const (
	TeamANA TeamCode = "ANA"
	TeamBOS TeamCode = "BOS"
	TeamBUF TeamCode = "BUF"
	TeamCGY TeamCode = "CGY"
	TeamCAR TeamCode = "CAR"
	TeamCHI TeamCode = "CHI"
	TeamCOL TeamCode = "COL"
	TeamCBJ TeamCode = "CBJ"
	TeamDAL TeamCode = "DAL"
	TeamDET TeamCode = "DET"
	TeamEDM TeamCode = "EDM"
	TeamFLA TeamCode = "FLA"
	TeamLAK TeamCode = "LAK"
	TeamMIN TeamCode = "MIN"
	TeamMTL TeamCode = "MTL"
	TeamNJD TeamCode = "NJD"
	TeamNSH TeamCode = "NSH"
	TeamNYI TeamCode = "NYI"
	TeamNYR TeamCode = "NYR"
	TeamOTT TeamCode = "OTT"
	TeamPHI TeamCode = "PHI"
	TeamPIT TeamCode = "PIT"
	TeamSJS TeamCode = "SJS"
	TeamSEA TeamCode = "SEA"
	TeamSTL TeamCode = "STL"
	TeamTBL TeamCode = "TBL"
	TeamTOR TeamCode = "TOR"
	TeamUTA TeamCode = "UTA"
	TeamVAN TeamCode = "VAN"
	TeamVGK TeamCode = "VGK"
	TeamWPG TeamCode = "WPG"
	TeamWSH TeamCode = "WSH"
)

// AllTeams lists every canonical franchise code.
var AllTeams = []TeamCode{
	TeamANA, TeamBOS, TeamBUF, TeamCGY, TeamCAR, TeamCHI, TeamCOL, TeamCBJ,
	TeamDAL, TeamDET, TeamEDM, TeamFLA, TeamLAK, TeamMIN, TeamMTL, TeamNJD,
	TeamNSH, TeamNYI, TeamNYR, TeamOTT, TeamPHI, TeamPIT, TeamSJS, TeamSEA,
	TeamSTL, TeamTBL, TeamTOR, TeamUTA, TeamVAN, TeamVGK, TeamWPG, TeamWSH,
}

// StatCategory is a canonical statistic label.
type StatCategory string

const (
	StatShotsOnGoal  StatCategory = "Shots on Goal"
	StatFaceoffsWon  StatCategory = "Faceoffs Won"
	StatHits         StatCategory = "Hits"
	StatPoints       StatCategory = "Points"
	StatGoals        StatCategory = "Goals"
	StatAssists      StatCategory = "Assists"
	StatBlockedShots StatCategory = "Blocked Shots"
	StatGoalsAgainst StatCategory = "Goals Against"
	StatSaves        StatCategory = "Saves"
)

// AllStats lists every canonical statistic category.
var AllStats = []StatCategory{
	StatShotsOnGoal, StatFaceoffsWon, StatHits, StatPoints, StatGoals,
	StatAssists, StatBlockedShots, StatGoalsAgainst, StatSaves,
}

// Position is one of the five defense-vs-position filters.
type Position string

const (
	PosLeftWing  Position = "LW"
	PosRightWing Position = "RW"
	PosCenter    Position = "C"
	PosDefense   Position = "D"
	PosGoalie    Position = "G"
)

// Positions is the order in which filters are applied during extraction.
var Positions = []Position{PosLeftWing, PosRightWing, PosCenter, PosDefense, PosGoalie}

// Labels returns the visible labels a filter control may carry for p,
// short form first.
func (p Position) Labels() []string {
	switch p {
	case PosLeftWing:
		return []string{"LW", "Left Wing", "L"}
	case PosRightWing:
		return []string{"RW", "Right Wing", "R"}
	case PosCenter:
		return []string{"C", "Center", "Centre"}
	case PosDefense:
		return []string{"D", "Defense", "Defence", "Defenseman"}
	case PosGoalie:
		return []string{"G", "Goalie", "Goaltender", "Goalies"}
	default:
		return []string{string(p)}
	}
}

// RankNA marks a prop for which no defensive rank was found.
const RankNA = "NA"

// Weak-defense band, inclusive.
const (
	WeakRankMin = 24
	WeakRankMax = 32
)

// DefenseRecord is one weak-defense observation: Team ranks Rank (24th-32nd)
// against Stat for players at Position, and the weakness is attributed to
// Opponent's players.
type DefenseRecord struct {
	Team     string   `json:"team"`
	Opponent string   `json:"opponent"`
	Stat     string   `json:"stat"`
	Rank     string   `json:"rank"`
	Position Position `json:"position,omitempty"`
}

// PropRecord is a single scraped player-prop offer.
type PropRecord struct {
	Player   string  `json:"player"`
	Team     string  `json:"team"`
	Opponent string  `json:"opponent,omitempty"`
	Stat     string  `json:"stat"`
	Line     float64 `json:"line"`
	Source   string  `json:"source,omitempty"`
}

// MatchTier records which join tier produced a MergedRecord's rank.
type MatchTier string

const (
	TierExact        MatchTier = "exact"
	TierSubstring    MatchTier = "substring"
	TierAlias        MatchTier = "alias"
	TierAliasReverse MatchTier = "alias-reverse"
	TierNone         MatchTier = "none"
)

// MergedRecord is a PropRecord annotated with the opponent's defensive rank.
type MergedRecord struct {
	PropRecord
	DefenseRank string    `json:"defense_rank"`
	MatchTier   MatchTier `json:"match_tier"`
}
