package models

import "time"

// CallAttempt is one row of the raw call log after normalization. A lead may
// have many attempts over time; the pair (Bot, MobileNumber) identifies the
// lead. MobileNumber is kept as text verbatim so leading zeros survive.
type CallAttempt struct {
	Bot          string    `json:"bot"`
	MobileNumber string    `json:"mobile_number"`
	Outcome      string    `json:"outcome"`
	Contacted    int       `json:"contacted"`
	Date         time.Time `json:"date"`
	RecordingURL string    `json:"recording_url"`
}

// LeadFlags are the category flags derived from a lead's latest attempt.
// Connected/NotConnected and the four outcome flags are independent axes.
type LeadFlags struct {
	Connected       bool `json:"connected_flag"`
	NotConnected    bool `json:"not_connected_flag"`
	Converted       bool `json:"converted_flag"`
	Lost            bool `json:"lost_flag"`
	AssignedToAgent bool `json:"assigned_to_agent_flag"`
	FollowUp        bool `json:"follow_up_flag"`
}

// LeadSummaryRow is a latest-state record together with its full flag vector.
type LeadSummaryRow struct {
	CallAttempt
	LeadFlags
}

// BotMetrics holds the aggregated statistics for one bot.
type BotMetrics struct {
	UniqueLeads     int     `json:"unique_leads"`
	TotalAttempts   int     `json:"total_attempts"`
	AvgAttempts     float64 `json:"avg_attempts"`
	Connected       int     `json:"connected"`
	ConnectivityPct float64 `json:"connectivity_pct"`
	NotConnected    int     `json:"not_connected"`
	FollowUp        int     `json:"follow_up"`
	AssignedToAgent int     `json:"assigned_to_agent"`
	Lost            int     `json:"lost"`
	Converted       int     `json:"converted"`
}

// MetricRow is one row of the summary matrix: a metric name mapped from bot
// name to value. Counts are whole numbers; "Avg Attempts" and
// "Connectivity % :" carry two decimals. Connectivity is a fraction in
// [0,1], not scaled by 100 — downstream consumers depend on that.
type MetricRow struct {
	Metric string             `json:"metric"`
	Values map[string]float64 `json:"values"`
}

// Report is the complete output of one run: the summary matrix, the six
// plain category tables, the lead summary view, and row accounting for the
// normalizer's date-drop behavior.
type Report struct {
	Bots        []string                 `json:"bots"`
	Summary     []MetricRow              `json:"summary"`
	Categories  map[string][]CallAttempt `json:"categories"`
	LeadSummary []LeadSummaryRow         `json:"lead_summary"`
	RowsIn      int                      `json:"rows_in"`
	RowsDropped int                      `json:"rows_dropped"`
}
