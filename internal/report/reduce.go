package report

import (
	"sort"

	"github.com/callperf/backend/internal/models"
)

type leadKey struct {
	Bot          string
	MobileNumber string
}

// Reduce collapses the attempt-level dataset to one latest-state row per
// (bot, mobile_number) pair: the attempt with the maximum date, all other
// fields carried over from that attempt. The sort is stable and ascending,
// so when two attempts share the same maximum timestamp the one appearing
// later in the input order wins — an explicit tie-break, not an accident.
//
// The result is ordered by (bot, mobile_number) ascending and is computed
// once per run; the classifier, aggregator and category tables all consume
// the same slice.
func Reduce(attempts []models.CallAttempt) []models.CallAttempt {
	byDate := make([]models.CallAttempt, len(attempts))
	copy(byDate, attempts)
	sort.SliceStable(byDate, func(i, j int) bool {
		return byDate[i].Date.Before(byDate[j].Date)
	})

	latest := make(map[leadKey]models.CallAttempt, len(byDate))
	for _, a := range byDate {
		latest[leadKey{a.Bot, a.MobileNumber}] = a
	}

	out := make([]models.CallAttempt, 0, len(latest))
	for _, a := range latest {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bot != out[j].Bot {
			return out[i].Bot < out[j].Bot
		}
		return out[i].MobileNumber < out[j].MobileNumber
	})
	return out
}
