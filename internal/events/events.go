// Package events publishes completed search outcomes onto NATS, the way
// pkg/nats publishes order and position updates: JSON-encoded, one
// subject per event kind, fire-and-forget from the caller's perspective.
package events

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/mExOms/convroute/pkg/materialize"
	"github.com/mExOms/convroute/pkg/money"
	"github.com/mExOms/convroute/pkg/searchservice"
)

// FeeEntry is the wire representation of one currency's aggregated fee.
type FeeEntry struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

// StepEvent is the wire representation of one ExecutionStep.
type StepEvent struct {
	SequenceNumber int    `json:"sequenceNumber"`
	From           string `json:"from"`
	To             string `json:"to"`
	Spent          string `json:"spent"`
	Received       string `json:"received"`
	OrderID        string `json:"orderId"`
}

// OutcomeEvent is the wire representation of a searchservice.Outcome,
// published once a planner request completes (with or without a plan).
type OutcomeEvent struct {
	Found             bool        `json:"found"`
	PlanID            string      `json:"planId,omitempty"`
	SourceCurrency    string      `json:"sourceCurrency,omitempty"`
	TargetCurrency    string      `json:"targetCurrency,omitempty"`
	TotalSpent        string      `json:"totalSpent,omitempty"`
	TotalReceived     string      `json:"totalReceived,omitempty"`
	ResidualTolerance string      `json:"residualTolerance,omitempty"`
	IsLinear          bool        `json:"isLinear"`
	Steps             []StepEvent `json:"steps,omitempty"`
	FeeBreakdown      []FeeEntry  `json:"feeBreakdown,omitempty"`
	Expansions        int64       `json:"expansions"`
	UniqueVisited     int64       `json:"uniqueVisitedStates"`
	ElapsedMs         int64       `json:"elapsedMs"`
	GuardBreached     bool        `json:"guardBreached"`
}

// ToOutcomeEvent converts a searchservice.Outcome into its wire form.
func ToOutcomeEvent(outcome searchservice.Outcome) OutcomeEvent {
	evt := OutcomeEvent{
		Found:         outcome.Plan != nil,
		Expansions:    outcome.GuardReport.Expansions,
		UniqueVisited: outcome.GuardReport.UniqueVisitedStates,
		ElapsedMs:     outcome.GuardReport.ElapsedMs,
		GuardBreached: outcome.GuardReport.Breached(),
	}
	if outcome.Plan == nil {
		return evt
	}

	plan := outcome.Plan
	evt.PlanID = plan.PlanID
	evt.SourceCurrency = string(plan.SourceCurrency)
	evt.TargetCurrency = string(plan.TargetCurrency)
	evt.TotalSpent = plan.TotalSpent.String()
	evt.TotalReceived = plan.TotalReceived.String()
	evt.ResidualTolerance = plan.ResidualTolerance.String()
	evt.IsLinear = plan.IsLinear
	evt.Steps = toStepEvents(plan.Steps)
	evt.FeeBreakdown = toFeeEntries(plan.FeeBreakdown)
	return evt
}

func toStepEvents(steps []materialize.ExecutionStep) []StepEvent {
	out := make([]StepEvent, 0, len(steps))
	for _, step := range steps {
		out = append(out, StepEvent{
			SequenceNumber: step.SequenceNumber,
			From:           string(step.From),
			To:             string(step.To),
			Spent:          step.Spent.String(),
			Received:       step.Received.String(),
			OrderID:        step.Order.ID,
		})
	}
	return out
}

func toFeeEntries(fees []money.Money) []FeeEntry {
	out := make([]FeeEntry, 0, len(fees))
	for _, fee := range fees {
		out = append(out, FeeEntry{
			Currency: string(fee.Currency),
			Amount:   fee.Amount.String(),
		})
	}
	return out
}

// Publisher publishes OutcomeEvents to a single NATS subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
	logger  *logrus.Entry
}

// NewPublisher connects to natsURL and returns a Publisher that emits to
// subject.
func NewPublisher(natsURL, subject string) (*Publisher, error) {
	conn, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Publisher{
		conn:    conn,
		subject: subject,
		logger:  logrus.WithField("component", "planner-events"),
	}, nil
}

// Publish marshals outcome and publishes it to the configured subject.
func (p *Publisher) Publish(outcome searchservice.Outcome) error {
	evt := ToOutcomeEvent(outcome)
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal outcome event: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.subject, err)
	}
	p.logger.Debugf("published outcome to %s", p.subject)
	return nil
}

// Close closes the underlying NATS connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
