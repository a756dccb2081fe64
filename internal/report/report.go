package report

import (
	"github.com/callperf/backend/internal/models"
)

// Metric labels of the summary matrix. The exact strings and their order are
// part of the output contract; consumers match on them.
const (
	MetricUniqueLeads   = "Unique leads"
	MetricTotalAttempts = "Total Attempts"
	MetricAvgAttempts   = "Avg Attempts"
	MetricConnected     = "Connected"
	MetricConnectivity  = "Connectivity % :"
	MetricNotConnected  = "Not Connected"
	MetricFollowUp      = "Follow Up"
	MetricAssigned      = "Assigned to human agent"
	MetricLost          = "Lost"
	MetricConverted     = "Converted"
)

// MetricOrder is the fixed row order of the summary matrix.
var MetricOrder = []string{
	MetricUniqueLeads,
	MetricTotalAttempts,
	MetricAvgAttempts,
	MetricConnected,
	MetricConnectivity,
	MetricNotConnected,
	MetricFollowUp,
	MetricAssigned,
	MetricLost,
	MetricConverted,
}

// TwoDecimalMetrics marks the rows rendered with two decimal places.
var TwoDecimalMetrics = map[string]bool{
	MetricAvgAttempts:  true,
	MetricConnectivity: true,
}

// Assemble builds the summary matrix in the fixed metric order, one column
// per bot.
func Assemble(bots []string, metrics map[string]models.BotMetrics) []models.MetricRow {
	rows := make([]models.MetricRow, 0, len(MetricOrder))
	for _, name := range MetricOrder {
		row := models.MetricRow{Metric: name, Values: make(map[string]float64, len(bots))}
		for _, b := range bots {
			row.Values[b] = metricValue(name, metrics[b])
		}
		rows = append(rows, row)
	}
	return rows
}

func metricValue(name string, m models.BotMetrics) float64 {
	switch name {
	case MetricUniqueLeads:
		return float64(m.UniqueLeads)
	case MetricTotalAttempts:
		return float64(m.TotalAttempts)
	case MetricAvgAttempts:
		return m.AvgAttempts
	case MetricConnected:
		return float64(m.Connected)
	case MetricConnectivity:
		return m.ConnectivityPct
	case MetricNotConnected:
		return float64(m.NotConnected)
	case MetricFollowUp:
		return float64(m.FollowUp)
	case MetricAssigned:
		return float64(m.AssignedToAgent)
	case MetricLost:
		return float64(m.Lost)
	case MetricConverted:
		return float64(m.Converted)
	}
	return 0
}

// Generate runs the full pipeline on one raw table: schema validation, field
// normalization, lead reduction, classification and aggregation. Everything
// is derived fresh from the input; nothing persists between runs.
func Generate(headers []string, rows [][]string) (models.Report, error) {
	if err := ValidateSchema(headers); err != nil {
		return models.Report{}, err
	}
	attempts, dropped := Normalize(headers, rows)
	latest := Reduce(attempts)
	bots, metrics, err := Aggregate(attempts, latest)
	if err != nil {
		return models.Report{}, err
	}
	return models.Report{
		Bots:        bots,
		Summary:     Assemble(bots, metrics),
		Categories:  Categories(latest),
		LeadSummary: LeadSummary(latest),
		RowsIn:      len(rows),
		RowsDropped: dropped,
	}, nil
}
