package report

import (
	"sort"

	"github.com/callperf/backend/internal/models"
)

// Terminal outcomes recognized by the classifier, matched against the
// already-lowercased outcome text. Anything else falls into follow-up.
const (
	OutcomeConverted = "converted"
	OutcomeLost      = "lost"
	OutcomeAssigned  = "assign to live agent"
)

// Category table names. LeadSummary is the seventh table but carries the
// flag vector instead of being a plain subset.
const (
	CategoryConnected    = "connected"
	CategoryNotConnected = "not_connected"
	CategoryConverted    = "converted"
	CategoryLost         = "lost"
	CategoryAssigned     = "assigned_to_human_agent"
	CategoryFollowUp     = "follow_up"
	CategoryLeadSummary  = "lead_summary"
)

// CategoryOrder is the presentation order of the plain category tables.
var CategoryOrder = []string{
	CategoryConnected,
	CategoryNotConnected,
	CategoryConverted,
	CategoryLost,
	CategoryAssigned,
	CategoryFollowUp,
}

// Classify derives the six boolean flags from a latest-state record. The
// predicates are independent: connected/not_connected split on recording
// presence, the outcome flags on exact lowercase matches, and follow-up is
// the complement of the three terminal outcomes.
func Classify(a models.CallAttempt) models.LeadFlags {
	connected := a.RecordingURL != ""
	terminal := a.Outcome == OutcomeAssigned || a.Outcome == OutcomeConverted || a.Outcome == OutcomeLost
	return models.LeadFlags{
		Connected:       connected,
		NotConnected:    !connected,
		Converted:       a.Outcome == OutcomeConverted,
		Lost:            a.Outcome == OutcomeLost,
		AssignedToAgent: a.Outcome == OutcomeAssigned,
		FollowUp:        !terminal,
	}
}

// Categories builds the six plain subsets of the latest-state table, one per
// flag predicate.
func Categories(latest []models.CallAttempt) map[string][]models.CallAttempt {
	out := map[string][]models.CallAttempt{
		CategoryConnected:    {},
		CategoryNotConnected: {},
		CategoryConverted:    {},
		CategoryLost:         {},
		CategoryAssigned:     {},
		CategoryFollowUp:     {},
	}
	for _, a := range latest {
		fl := Classify(a)
		if fl.Connected {
			out[CategoryConnected] = append(out[CategoryConnected], a)
		}
		if fl.NotConnected {
			out[CategoryNotConnected] = append(out[CategoryNotConnected], a)
		}
		if fl.Converted {
			out[CategoryConverted] = append(out[CategoryConverted], a)
		}
		if fl.Lost {
			out[CategoryLost] = append(out[CategoryLost], a)
		}
		if fl.AssignedToAgent {
			out[CategoryAssigned] = append(out[CategoryAssigned], a)
		}
		if fl.FollowUp {
			out[CategoryFollowUp] = append(out[CategoryFollowUp], a)
		}
	}
	return out
}

// LeadSummary is the flattened view carrying the full flag vector, sorted by
// bot ascending then date descending for presentation.
func LeadSummary(latest []models.CallAttempt) []models.LeadSummaryRow {
	rows := make([]models.LeadSummaryRow, 0, len(latest))
	for _, a := range latest {
		rows = append(rows, models.LeadSummaryRow{CallAttempt: a, LeadFlags: Classify(a)})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Bot != rows[j].Bot {
			return rows[i].Bot < rows[j].Bot
		}
		return rows[i].Date.After(rows[j].Date)
	})
	return rows
}
