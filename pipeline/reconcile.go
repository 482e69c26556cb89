// Package pipeline wires canonicalization, the join and the exporters into
// one reconcile run.
package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/puckline/matchup/canon"
	"github.com/puckline/matchup/export"
	"github.com/puckline/matchup/extract"
	"github.com/puckline/matchup/join"
	"github.com/puckline/matchup/models"
)

// Reconciler canonicalizes defense and prop records, joins them and hands
// the result to its exporters. It is safe for concurrent use.
type Reconciler struct {
	joiner    *join.Joiner
	exporters []export.Exporter
	log       *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithJoiner replaces the default joiner.
func WithJoiner(j *join.Joiner) Option {
	return func(r *Reconciler) { r.joiner = j }
}

// WithExporters sets the exporters Export fans out to.
func WithExporters(exporters ...export.Exporter) Option {
	return func(r *Reconciler) { r.exporters = exporters }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) { r.log = l }
}

// New creates a Reconciler.
func New(opts ...Option) *Reconciler {
	r := &Reconciler{joiner: join.New(nil), log: slog.Default()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Reconcile returns one merged record per prop, in prop order, and a
// summary of the run. It never fails; ctx only scopes logging.
func (r *Reconciler) Reconcile(ctx context.Context, defense []models.DefenseRecord, props []models.PropRecord) ([]models.MergedRecord, models.Summary) {
	misses := make(missSet)
	canonDefense, dropped := r.canonicalDefense(ctx, defense, misses)
	canonProps := r.canonicalProps(ctx, props, misses)

	merged := r.joiner.Join(canonDefense, canonProps)

	sum := models.Summary{
		Props:          len(props),
		DefenseRecords: len(canonDefense),
		DroppedDefense: dropped,
		ByTier:         make(map[models.MatchTier]int),
		Unrecognized:   len(misses),
	}
	for _, m := range merged {
		sum.ByTier[m.MatchTier]++
		if m.DefenseRank == models.RankNA {
			sum.Unmatched++
		} else {
			sum.Matched++
		}
	}

	r.log.InfoContext(ctx, "reconcile complete",
		"props", sum.Props,
		"defense", sum.DefenseRecords,
		"dropped_defense", sum.DroppedDefense,
		"matched", sum.Matched,
		"unrecognized", sum.Unrecognized,
	)
	return merged, sum
}

// canonicalDefense canonicalizes teams, stats and ranks. Records whose team
// equals their opponent, or whose rank is outside the weak band, are
// dropped and counted.
func (r *Reconciler) canonicalDefense(ctx context.Context, defense []models.DefenseRecord, misses missSet) ([]models.DefenseRecord, int) {
	out := make([]models.DefenseRecord, 0, len(defense))
	dropped := 0
	for _, d := range defense {
		r.noteTeam(ctx, misses, d.Team)
		r.noteTeam(ctx, misses, d.Opponent)
		r.noteStat(ctx, misses, d.Stat)
		c := models.DefenseRecord{
			Team:     canon.Team(d.Team),
			Opponent: canon.Team(d.Opponent),
			Stat:     canon.Stat(d.Stat),
			Rank:     extract.NormalizeRank(d.Rank),
			Position: d.Position,
		}
		switch {
		case c.Team != "" && c.Team == c.Opponent:
			r.log.WarnContext(ctx, "dropping defense record: team equals opponent",
				"team", c.Team, "stat", c.Stat)
			dropped++
			continue
		case !extract.IsWeakRank(c.Rank):
			r.log.DebugContext(ctx, "dropping defense record: rank outside weak band",
				"team", c.Team, "stat", c.Stat, "rank", d.Rank)
			dropped++
			continue
		}
		out = append(out, c)
	}
	return out, dropped
}

// canonicalProps canonicalizes teams and stats. An opponent equal to the
// prop's own team is blanked so the join treats it as unknown.
func (r *Reconciler) canonicalProps(ctx context.Context, props []models.PropRecord, misses missSet) []models.PropRecord {
	out := make([]models.PropRecord, len(props))
	for i, p := range props {
		r.noteTeam(ctx, misses, p.Team)
		r.noteTeam(ctx, misses, p.Opponent)
		r.noteStat(ctx, misses, p.Stat)
		c := p
		c.Team = canon.Team(p.Team)
		c.Opponent = canon.Team(p.Opponent)
		c.Stat = canon.Stat(p.Stat)
		if c.Opponent != "" && c.Opponent == c.Team {
			r.log.WarnContext(ctx, "prop opponent equals its team, treating as unknown",
				"player", p.Player, "team", c.Team)
			c.Opponent = ""
		}
		out[i] = c
	}
	return out
}

// missSet holds the identifiers of one run that no alias table knew.
type missSet map[string]struct{}

func (r *Reconciler) noteTeam(ctx context.Context, misses missSet, raw string) {
	if strings.TrimSpace(raw) == "" || canon.KnownTeam(raw) {
		return
	}
	r.noteMiss(ctx, misses, "team", raw)
}

func (r *Reconciler) noteStat(ctx context.Context, misses missSet, raw string) {
	if strings.TrimSpace(raw) == "" || canon.KnownStat(raw) {
		return
	}
	r.noteMiss(ctx, misses, "stat", raw)
}

// noteMiss logs each unknown identifier once per run. A miss is not an
// error: the raw value passes through to the join.
func (r *Reconciler) noteMiss(ctx context.Context, misses missSet, kind, raw string) {
	key := kind + "\x00" + canon.Normalize(raw)
	if _, ok := misses[key]; ok {
		return
	}
	misses[key] = struct{}{}
	r.log.DebugContext(ctx, "identifier not in alias table, passing through",
		"kind", kind, "raw", raw)
}

// Export sends records to every configured exporter. Exporter failures are
// returned joined; the run itself is unaffected.
func (r *Reconciler) Export(ctx context.Context, records []models.MergedRecord) error {
	if len(r.exporters) == 0 {
		return nil
	}
	err := export.All(ctx, r.exporters, records)
	if err != nil {
		r.log.ErrorContext(ctx, "export failed", "error", err)
		return err
	}
	names := make([]string, len(r.exporters))
	for i, e := range r.exporters {
		names[i] = e.Name()
	}
	r.log.InfoContext(ctx, "export complete", "exporters", names, "records", len(records))
	return nil
}
