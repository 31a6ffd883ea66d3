// Package logging is the structured-logging wrapper SearchService and its
// ambient layers log through: a thin logrus.Entry factory keeping field
// naming consistent across packages.
package logging

import (
	"github.com/sirupsen/logrus"

	"github.com/mExOms/convroute/pkg/guards"
)

// New returns a component-scoped logger, mirroring the
// logrus.WithField("component", ...) convention used throughout the
// exchange connectors.
func New(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}

// GuardReport logs a guards.Report's counters as structured fields: Info
// when nothing breached, Warn when any limit was reached.
func GuardReport(logger *logrus.Entry, report guards.Report) {
	entry := logger.WithFields(logrus.Fields{
		"expansions":           report.Expansions,
		"maxExpansions":        report.Limits.MaxExpansions,
		"uniqueVisitedStates":  report.UniqueVisitedStates,
		"maxVisitedStates":     report.Limits.MaxVisitedStates,
		"elapsedMs":            report.ElapsedMs,
		"timeBudgetMs":         report.Limits.TimeBudgetMs,
		"expansionsReached":    report.ExpansionsReached,
		"visitedStatesReached": report.UniqueVisitedStatesReached,
		"elapsedMsReached":     report.ElapsedMsReached,
	})
	if report.Breached() {
		entry.Warn("search guard limit reached")
		return
	}
	entry.Info("search completed within guard limits")
}
