// Package guards implements the three independent resource counters that
// bound a single search invocation: expansions, unique visited states and
// elapsed wall-clock time.
package guards

import (
	"time"

	"github.com/mExOms/convroute/pkg/xerrors"
)

// NoBudget is the sentinel meaning "no configured limit" for the time
// budget specifically (expansions and visited-state limits are always
// finite per spec §4.4).
const NoBudget int64 = -1

// Limits is the configured ceiling for each of the three counters.
type Limits struct {
	MaxExpansions    int64
	MaxVisitedStates int64
	TimeBudgetMs     int64 // NoBudget means unlimited
}

// Breach names one limit that was exceeded, carrying both sides for the
// GuardLimitExceeded error.
type Breach struct {
	Name       string
	Actual     int64
	Configured int64
}

// Report is the final snapshot handed back alongside a search outcome:
// every limit, every actual count, and which (if any) were breached.
type Report struct {
	Limits                     Limits
	Expansions                 int64
	UniqueVisitedStates        int64
	ElapsedMs                  int64
	ExpansionsReached          bool
	UniqueVisitedStatesReached bool
	ElapsedMsReached           bool
}

// Breached reports whether any of the three limits were reached.
func (r Report) Breached() bool {
	return r.ExpansionsReached || r.UniqueVisitedStatesReached || r.ElapsedMsReached
}

// Idle returns the zero-activity report SearchService hands back when a
// search request never reaches the engine (empty order book, missing
// source/target node) — no limits were ever consulted or breached.
func Idle(limits Limits) Report {
	return Report{Limits: limits}
}

// Guards owns the mutable counters for one search invocation. It is never
// shared across invocations.
type Guards struct {
	limits       Limits
	throwOnLimit bool
	start        time.Time

	expansions          int64
	uniqueVisitedStates int64
}

// New constructs Guards for one invocation, starting its wall-clock timer
// immediately.
func New(limits Limits, throwOnLimit bool) *Guards {
	return &Guards{limits: limits, throwOnLimit: throwOnLimit, start: time.Now()}
}

// RecordExpansion increments the expansion counter (called once per queue
// pop-and-relax) and evaluates all three limits. breached is true when any
// limit is now exceeded; err is non-nil only when throwOnLimit is set and a
// breach occurred, in which case it is an xerrors.GuardLimitExceeded.
func (g *Guards) RecordExpansion() (breached bool, err error) {
	g.expansions++
	return g.check()
}

// RecordUniqueState increments the unique-visited-state counter (called
// once per new dominance-registry entry) and evaluates all three limits.
func (g *Guards) RecordUniqueState() (breached bool, err error) {
	g.uniqueVisitedStates++
	return g.check()
}

func (g *Guards) elapsedMs() int64 {
	return time.Since(g.start).Milliseconds()
}

func (g *Guards) check() (bool, error) {
	report := g.snapshot()
	if !report.Breached() {
		return false, nil
	}
	if g.throwOnLimit {
		return true, xerrors.NewGuardLimitExceeded(report.breachList())
	}
	return true, nil
}

func (r Report) breachList() []xerrors.GuardBreach {
	var out []xerrors.GuardBreach
	if r.ExpansionsReached {
		out = append(out, xerrors.GuardBreach{Name: "expansions", Actual: r.Expansions, Configured: r.Limits.MaxExpansions})
	}
	if r.UniqueVisitedStatesReached {
		out = append(out, xerrors.GuardBreach{Name: "uniqueVisitedStates", Actual: r.UniqueVisitedStates, Configured: r.Limits.MaxVisitedStates})
	}
	if r.ElapsedMsReached {
		out = append(out, xerrors.GuardBreach{Name: "elapsedMs", Actual: r.ElapsedMs, Configured: r.Limits.TimeBudgetMs})
	}
	return out
}

// Snapshot returns the current Report without mutating any counter.
func (g *Guards) Snapshot() Report {
	return g.snapshot()
}

func (g *Guards) snapshot() Report {
	elapsed := g.elapsedMs()
	timeReached := g.limits.TimeBudgetMs != NoBudget && elapsed >= g.limits.TimeBudgetMs

	return Report{
		Limits:                     g.limits,
		Expansions:                 g.expansions,
		UniqueVisitedStates:        g.uniqueVisitedStates,
		ElapsedMs:                  elapsed,
		ExpansionsReached:          g.expansions >= g.limits.MaxExpansions,
		UniqueVisitedStatesReached: g.uniqueVisitedStates >= g.limits.MaxVisitedStates,
		ElapsedMsReached:           timeReached,
	}
}
