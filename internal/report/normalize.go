package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/callperf/backend/internal/models"
)

// BlankBotName buckets rows with no bot value so they stay visible in the
// summary instead of vanishing.
const BlankBotName = "Blank_Bot_Name"

// dateLayouts are tried in order when parsing the date column. Day-first
// slash forms take precedence over month-first (month-first only matches
// when day-first cannot).
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"01/02/2006",
}

// Normalize coerces raw rows into CallAttempts. Rows whose date cannot be
// parsed are dropped, not repaired; the count of dropped rows is returned so
// callers can surface how much the totals shrank. No other condition drops a
// row: a bad contacted value defaults to 0 and an empty bot is re-labelled
// BlankBotName.
func Normalize(headers []string, rows [][]string) ([]models.CallAttempt, int) {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}
	col := func(name string) int {
		if pos, ok := idx[name]; ok {
			return pos
		}
		return -1
	}

	out := make([]models.CallAttempt, 0, len(rows))
	dropped := 0
	for _, rec := range rows {
		date, ok := parseDate(cell(rec, col("date")))
		if !ok {
			dropped++
			continue
		}
		out = append(out, models.CallAttempt{
			Bot:          normalizeBot(cell(rec, col("bot"))),
			MobileNumber: cell(rec, col("mobile_number")),
			Outcome:      strings.ToLower(strings.TrimSpace(cell(rec, col("outcome")))),
			Contacted:    parseContacted(cell(rec, col("contacted"))),
			Date:         date,
			RecordingURL: strings.TrimSpace(cell(rec, col("recording_url"))),
		})
	}
	return out, dropped
}

// cell returns the raw value verbatim; short rows read as empty. The
// mobile_number column in particular must not be trimmed or re-typed.
func cell(rec []string, pos int) string {
	if pos < 0 || pos >= len(rec) {
		return ""
	}
	return rec[pos]
}

func parseDate(raw string) (time.Time, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseContacted(raw string) int {
	v := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int(f)
	}
	return 0
}

func normalizeBot(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return BlankBotName
	}
	return raw
}
