package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/callperf/backend/internal/models"
	"github.com/callperf/backend/internal/report"
)

// Styling matches the report the consumers already receive: silver data
// rows, yellow column headings, and the Converted row highlighted yellow.
const (
	summarySheet = "Summary"
	yellow       = "FFF700"
	silver       = "C0C0C0"
	fracFormat   = "0.00"
	dateFormat   = "2006-01-02 15:04:05"
)

var attemptHeader = []string{"bot", "mobile_number", "outcome", "contacted", "date", "recording_url"}

var leadSummaryHeader = []string{
	"bot", "mobile_number", "date", "outcome",
	"connected_flag", "not_connected_flag", "converted_flag", "lost_flag",
	"assigned_to_agent_flag", "follow_up_flag",
}

type styleSet struct {
	headerBordered int // summary column headings
	headerPlain    int // category sheet headings
	labelSilver    int
	labelYellow    int
	dataSilver     int
	dataSilverFrac int
	dataYellow     int
	numeric        int
}

// Workbook renders a computed report as a styled spreadsheet: the Summary
// sheet followed by one sheet per category table.
func Workbook(rep models.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSummary(f, st, rep); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range report.CategoryOrder {
		if err := writeCategory(f, st, name, rep.Categories[name]); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := writeLeadSummary(f, st, rep.LeadSummary); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// Bytes serializes the styled workbook for download.
func Bytes(rep models.Report) ([]byte, error) {
	f, err := Workbook(rep)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func newStyles(f *excelize.File) (styleSet, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	fill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
	}
	frac := fracFormat

	var st styleSet
	var err error
	if st.headerBordered, err = f.NewStyle(&excelize.Style{
		Fill: fill(yellow), Font: &excelize.Font{Bold: true, Color: "000000"}, Border: border,
	}); err != nil {
		return st, err
	}
	if st.headerPlain, err = f.NewStyle(&excelize.Style{
		Fill: fill(yellow), Font: &excelize.Font{Bold: true, Color: "000000"},
	}); err != nil {
		return st, err
	}
	if st.labelSilver, err = f.NewStyle(&excelize.Style{
		Fill: fill(silver), Font: &excelize.Font{Bold: true, Color: "000000"}, Border: border,
	}); err != nil {
		return st, err
	}
	if st.labelYellow, err = f.NewStyle(&excelize.Style{
		Fill: fill(yellow), Font: &excelize.Font{Bold: true, Color: "000000"}, Border: border,
	}); err != nil {
		return st, err
	}
	if st.dataSilver, err = f.NewStyle(&excelize.Style{
		Fill: fill(silver), Font: &excelize.Font{Color: "000000"}, Border: border,
	}); err != nil {
		return st, err
	}
	if st.dataSilverFrac, err = f.NewStyle(&excelize.Style{
		Fill: fill(silver), Font: &excelize.Font{Color: "000000"}, Border: border, CustomNumFmt: &frac,
	}); err != nil {
		return st, err
	}
	if st.dataYellow, err = f.NewStyle(&excelize.Style{
		Fill: fill(yellow), Font: &excelize.Font{Color: "000000"}, Border: border,
	}); err != nil {
		return st, err
	}
	if st.numeric, err = f.NewStyle(&excelize.Style{CustomNumFmt: &frac}); err != nil {
		return st, err
	}
	return st, nil
}

func writeSummary(f *excelize.File, st styleSet, rep models.Report) error {
	if err := f.SetCellValue(summarySheet, "A1", "Metric"); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "A1", st.labelSilver); err != nil {
		return err
	}
	for i, bot := range rep.Bots {
		cellName, err := excelize.CoordinatesToCellName(i+2, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, cellName, bot); err != nil {
			return err
		}
		if err := f.SetCellStyle(summarySheet, cellName, cellName, st.headerBordered); err != nil {
			return err
		}
	}

	for r, row := range rep.Summary {
		rowNum := r + 2
		labelCell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		labelStyle := st.labelSilver
		dataStyle := st.dataSilver
		if row.Metric == report.MetricConverted {
			labelStyle = st.labelYellow
			dataStyle = st.dataYellow
		} else if report.TwoDecimalMetrics[row.Metric] {
			dataStyle = st.dataSilverFrac
		}
		if err := f.SetCellValue(summarySheet, labelCell, row.Metric); err != nil {
			return err
		}
		if err := f.SetCellStyle(summarySheet, labelCell, labelCell, labelStyle); err != nil {
			return err
		}
		for c, bot := range rep.Bots {
			cellName, err := excelize.CoordinatesToCellName(c+2, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(summarySheet, cellName, cellValueFor(row.Metric, row.Values[bot])); err != nil {
				return err
			}
			if err := f.SetCellStyle(summarySheet, cellName, cellName, dataStyle); err != nil {
				return err
			}
		}
	}
	return nil
}

// cellValueFor writes count metrics as integers so the sheet shows whole
// numbers where the metric is a count.
func cellValueFor(metric string, v float64) any {
	if report.TwoDecimalMetrics[metric] {
		return v
	}
	return int(v)
}

func writeCategory(f *excelize.File, st styleSet, name string, rows []models.CallAttempt) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	if err := writeHeader(f, st, name, attemptHeader); err != nil {
		return err
	}
	for i, a := range rows {
		rowNum := i + 2
		values := []any{a.Bot, a.MobileNumber, a.Outcome, a.Contacted, a.Date.Format(dateFormat), a.RecordingURL}
		if err := setRow(f, name, rowNum, values); err != nil {
			return err
		}
		// contacted is the only numeric column, rendered with two decimals
		// like every numeric column on these sheets.
		cellName, err := excelize.CoordinatesToCellName(4, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(name, cellName, cellName, st.numeric); err != nil {
			return err
		}
	}
	return nil
}

func writeLeadSummary(f *excelize.File, st styleSet, rows []models.LeadSummaryRow) error {
	name := report.CategoryLeadSummary
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	if err := writeHeader(f, st, name, leadSummaryHeader); err != nil {
		return err
	}
	for i, r := range rows {
		values := []any{
			r.Bot, r.MobileNumber, r.Date.Format(dateFormat), r.Outcome,
			r.Connected, r.NotConnected, r.Converted, r.Lost,
			r.AssignedToAgent, r.FollowUp,
		}
		if err := setRow(f, name, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(f *excelize.File, st styleSet, sheet string, header []string) error {
	for i, h := range header {
		cellName, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cellName, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cellName, cellName, st.headerPlain); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	cellName, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cellName, &values)
}
