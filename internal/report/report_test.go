package report

import (
	"reflect"
	"testing"
)

func TestGenerateMetricOrderAndLabels(t *testing.T) {
	rows := [][]string{
		{"A", "111", " Converted ", "1", "2024-01-01", ""},
		{"A", "111", "lost", "1", "2024-01-02", "http://x"},
	}
	rep, err := Generate(testHeaders, rows)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	wantOrder := []string{
		"Unique leads", "Total Attempts", "Avg Attempts", "Connected",
		"Connectivity % :", "Not Connected", "Follow Up",
		"Assigned to human agent", "Lost", "Converted",
	}
	if len(rep.Summary) != len(wantOrder) {
		t.Fatalf("expected %d metric rows, got %d", len(wantOrder), len(rep.Summary))
	}
	for i, name := range wantOrder {
		if rep.Summary[i].Metric != name {
			t.Fatalf("metric row %d: expected %q, got %q", i, name, rep.Summary[i].Metric)
		}
	}

	get := func(metric string) float64 {
		for _, r := range rep.Summary {
			if r.Metric == metric {
				return r.Values["A"]
			}
		}
		t.Fatalf("metric %q not found", metric)
		return 0
	}
	if get(MetricUniqueLeads) != 1 || get(MetricTotalAttempts) != 2 {
		t.Fatalf("unexpected lead/attempt counts: %+v", rep.Summary)
	}
	if get(MetricAvgAttempts) != 2.0 || get(MetricConnectivity) != 1.0 {
		t.Fatalf("unexpected ratios: %+v", rep.Summary)
	}
	if get(MetricLost) != 1 || get(MetricConverted) != 0 {
		t.Fatalf("expected latest state lost, got %+v", rep.Summary)
	}
}

func TestGenerateDroppedRowsExcludedEverywhere(t *testing.T) {
	rows := [][]string{
		{"A", "111", "x", "1", "2024-01-01", ""},
		{"A", "222", "x", "1", "not-a-date", ""},
	}
	rep, err := Generate(testHeaders, rows)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if rep.RowsIn != 2 || rep.RowsDropped != 1 {
		t.Fatalf("expected 2 in / 1 dropped, got %d / %d", rep.RowsIn, rep.RowsDropped)
	}
	var total, unique float64
	for _, r := range rep.Summary {
		switch r.Metric {
		case MetricTotalAttempts:
			total = r.Values["A"]
		case MetricUniqueLeads:
			unique = r.Values["A"]
		}
	}
	if total != 1 || unique != 1 {
		t.Fatalf("dropped row leaked into aggregates: total=%v unique=%v", total, unique)
	}
	if len(rep.LeadSummary) != 1 {
		t.Fatalf("dropped row created a lead: %+v", rep.LeadSummary)
	}
}

func TestGenerateSchemaFailureProducesNothing(t *testing.T) {
	headers := []string{"bot", "mobile_number", "outcome", "contacted"}
	_, err := Generate(headers, [][]string{{"A", "1", "x", "1"}})
	if err == nil {
		t.Fatalf("expected schema error")
	}
}

func TestGenerateIdempotent(t *testing.T) {
	rows := [][]string{
		{"B", "1", "converted", "1", "2024-01-01 09:00:00", "http://a"},
		{"A", "2", "lost", "2", "2024-01-02", ""},
		{"A", "2", "busy", "1", "2024-01-03", "http://b"},
		{"", "3", "x", "abc", "2024-01-01", ""},
	}
	first, err := Generate(testHeaders, rows)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := Generate(testHeaders, rows)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two runs on the same dataset differ:\n%+v\n%+v", first, second)
	}
}

func TestGenerateCategoryTables(t *testing.T) {
	rows := [][]string{
		{"A", "1", "converted", "1", "2024-01-01", "http://x"},
		{"A", "2", "assign to live agent", "1", "2024-01-01", ""},
		{"A", "3", "no answer", "1", "2024-01-01", ""},
	}
	rep, err := Generate(testHeaders, rows)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, name := range CategoryOrder {
		if _, ok := rep.Categories[name]; !ok {
			t.Fatalf("missing category table %q", name)
		}
	}
	if len(rep.Categories[CategoryConverted]) != 1 || len(rep.Categories[CategoryAssigned]) != 1 {
		t.Fatalf("unexpected category sizes: %+v", rep.Categories)
	}
	if len(rep.Categories[CategoryFollowUp]) != 1 {
		t.Fatalf("expected one follow-up lead, got %d", len(rep.Categories[CategoryFollowUp]))
	}
	if len(rep.LeadSummary) != 3 {
		t.Fatalf("expected 3 lead summary rows, got %d", len(rep.LeadSummary))
	}
}
