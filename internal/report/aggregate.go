package report

import (
	"fmt"
	"sort"

	"github.com/callperf/backend/internal/models"
	"github.com/callperf/backend/internal/utils"
)

// Aggregate computes per-bot metrics. Attempt-level counts (total_attempts,
// unique_leads) come from the normalized but un-reduced dataset; the flag
// counts come from the latest-state table, which holds one row per distinct
// (bot, mobile_number) pair. Bots are returned sorted ascending so column
// order is deterministic.
//
// A bot appearing in the latest-state table but not in the attempt table
// means the two snapshots diverged; that is an error, not a zero.
func Aggregate(attempts, latest []models.CallAttempt) ([]string, map[string]models.BotMetrics, error) {
	attemptCount := map[string]int{}
	numbersByBot := map[string]map[string]struct{}{}
	for _, a := range attempts {
		attemptCount[a.Bot]++
		set, ok := numbersByBot[a.Bot]
		if !ok {
			set = map[string]struct{}{}
			numbersByBot[a.Bot] = set
		}
		set[a.MobileNumber] = struct{}{}
	}

	flagCounts := map[string]*models.BotMetrics{}
	for _, l := range latest {
		if _, ok := attemptCount[l.Bot]; !ok {
			return nil, nil, fmt.Errorf("latest-state table references bot %q absent from the attempt table", l.Bot)
		}
		m, ok := flagCounts[l.Bot]
		if !ok {
			m = &models.BotMetrics{}
			flagCounts[l.Bot] = m
		}
		fl := Classify(l)
		if fl.Connected {
			m.Connected++
		}
		if fl.NotConnected {
			m.NotConnected++
		}
		if fl.FollowUp {
			m.FollowUp++
		}
		if fl.AssignedToAgent {
			m.AssignedToAgent++
		}
		if fl.Lost {
			m.Lost++
		}
		if fl.Converted {
			m.Converted++
		}
	}

	bots := make([]string, 0, len(attemptCount))
	for b := range attemptCount {
		bots = append(bots, b)
	}
	sort.Strings(bots)

	metrics := make(map[string]models.BotMetrics, len(bots))
	for _, b := range bots {
		m := models.BotMetrics{}
		if fc := flagCounts[b]; fc != nil {
			m = *fc
		}
		m.TotalAttempts = attemptCount[b]
		m.UniqueLeads = len(numbersByBot[b])
		if m.UniqueLeads > 0 {
			m.AvgAttempts = utils.Round2(float64(m.TotalAttempts) / float64(m.UniqueLeads))
			// Connectivity stays a fraction in [0,1]; the "%" in the metric
			// label does not mean scaled by 100.
			m.ConnectivityPct = utils.Round2(float64(m.Connected) / float64(m.UniqueLeads))
		}
		metrics[b] = m
	}
	return bots, metrics, nil
}
