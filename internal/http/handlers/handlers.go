package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/callperf/backend/internal/export"
	"github.com/callperf/backend/internal/ingest"
	"github.com/callperf/backend/internal/models"
	"github.com/callperf/backend/internal/report"
)

const uploadField = "calllog"

type Handler struct {
	Validator   *validator.Validate
	Logger      zerolog.Logger
	PreviewRows int
}

type ReportQuery struct {
	Preview int `form:"preview" validate:"gte=0,lte=100"`
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Generate call performance report
// @Description Upload a raw call log (CSV or XLSX) and receive the summary matrix and category tables
// @Tags report
// @Accept multipart/form-data
// @Produce json
// @Param calllog formData file true "call log file (.csv or .xlsx)"
// @Param preview query int false "number of raw rows to echo back (0-100)"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 422 {object} map[string]any
// @Router /api/report [post]
func (h *Handler) Report(c *gin.Context) {
	q := ReportQuery{Preview: h.PreviewRows}
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid query parameters", err.Error())
		return
	}
	if err := h.Validator.Struct(q); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	rep, tbl, ok := h.compute(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report":  rep,
		"preview": previewRows(tbl, q.Preview),
	})
}

// @Summary Download styled report workbook
// @Description Upload a raw call log and receive the styled XLSX report
// @Tags report
// @Accept multipart/form-data
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param calllog formData file true "call log file (.csv or .xlsx)"
// @Success 200 {file} file
// @Failure 400 {object} map[string]any
// @Failure 422 {object} map[string]any
// @Router /api/report/export [post]
func (h *Handler) Export(c *gin.Context) {
	rep, _, ok := h.compute(c)
	if !ok {
		return
	}

	b, err := export.Bytes(rep)
	if err != nil {
		h.Logger.Error().Err(err).Msg("workbook build failed")
		writeError(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to build workbook", err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="Styled_Call_Report.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", b)
}

// compute parses the upload and runs the full pipeline, writing the error
// response itself when anything fails. Nothing is kept between requests;
// every call carries its complete dataset.
func (h *Handler) compute(c *gin.Context) (models.Report, ingest.Table, bool) {
	file, err := c.FormFile(uploadField)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "calllog file required", nil)
		return models.Report{}, ingest.Table{}, false
	}

	tbl, err := ingest.FromUpload(file)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_FILE", "Failed to parse upload", err.Error())
		return models.Report{}, ingest.Table{}, false
	}

	rep, err := report.Generate(tbl.Headers, tbl.Rows)
	if err != nil {
		var schemaErr *report.SchemaError
		if errors.As(err, &schemaErr) {
			writeError(c, http.StatusUnprocessableEntity, "SCHEMA_ERROR", "Missing required columns", schemaErr.Missing)
			return models.Report{}, ingest.Table{}, false
		}
		h.Logger.Error().Err(err).Str("file", file.Filename).Msg("report generation failed")
		writeError(c, http.StatusInternalServerError, "PROCESSING_ERROR", "Report generation failed", err.Error())
		return models.Report{}, ingest.Table{}, false
	}

	h.Logger.Info().
		Str("file", file.Filename).
		Int("rows_in", rep.RowsIn).
		Int("rows_dropped", rep.RowsDropped).
		Int("bots", len(rep.Bots)).
		Msg("report generated")
	return rep, tbl, true
}

func previewRows(tbl ingest.Table, n int) gin.H {
	if n > len(tbl.Rows) {
		n = len(tbl.Rows)
	}
	return gin.H{"headers": tbl.Headers, "rows": tbl.Rows[:n]}
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
