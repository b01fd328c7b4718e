package http

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/opensaldo/opensaldo/internal/ledger"
	"github.com/opensaldo/opensaldo/internal/platform/httpx"
	"github.com/opensaldo/opensaldo/internal/statement"
)

var csvPrinter = message.NewPrinter(language.English)

// HandleBalanceSheetCSV streams the balance sheet as CSV.
func (h *Handler) HandleBalanceSheetCSV(w http.ResponseWriter, r *http.Request) {
	entityID, year, err := h.parseReportParams(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	report, err := h.service.BalanceSheet(r.Context(), entityID, year)
	if err != nil {
		h.logger.Error("export balance sheet csv", slog.Int64("entity_id", entityID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	startCSVResponse(w, fmt.Sprintf("balance-sheet-%d-%d.csv", entityID, year))
	writer := csv.NewWriter(w)
	defer writer.Flush()
	_ = writer.Write(csvHeader(report.Periods))
	writeRowsCSV(writer, report.Periods, report.AssetRows)
	writeRowsCSV(writer, report.Periods, report.LiabilityRows)
}

// HandleIncomeStatementCSV streams the income-statement cascade as CSV.
func (h *Handler) HandleIncomeStatementCSV(w http.ResponseWriter, r *http.Request) {
	entityID, year, err := h.parseReportParams(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	report, err := h.service.IncomeStatement(r.Context(), entityID, year)
	if err != nil {
		h.logger.Error("export income statement csv", slog.Int64("entity_id", entityID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	startCSVResponse(w, fmt.Sprintf("income-statement-%d-%d.csv", entityID, year))
	writer := csv.NewWriter(w)
	defer writer.Flush()
	_ = writer.Write(csvHeader(report.Periods))
	writeRowsCSV(writer, report.Periods, report.Rows)
}

func startCSVResponse(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
}

func csvHeader(periods []ledger.Period) []string {
	header := []string{"Label", "Kind"}
	for _, p := range periods {
		header = append(header, fmt.Sprintf("%d-%02d", p.Year, p.Month))
	}
	return append(header, "Total")
}

func writeRowsCSV(writer *csv.Writer, periods []ledger.Period, rows []statement.ReportRow) {
	for _, row := range rows {
		record := []string{row.Label, string(row.Kind)}
		for _, p := range periods {
			record = append(record, formatAmount(row.Values, p.Key()))
		}
		record = append(record, formatAmount(row.Values, statement.TotalKey))
		_ = writer.Write(record)
	}
}

// formatAmount renders a value with English digit grouping, working
// from the decimal's exact text form so large amounts never pass
// through a float.
func formatAmount(values statement.PeriodValueMap, key string) string {
	value, ok := values[key]
	if !ok {
		return ""
	}
	fixed := value.Abs().StringFixed(2)
	intDigits := fixed[:len(fixed)-3]
	var sb strings.Builder
	if value.IsNegative() {
		sb.WriteByte('-')
	}
	if n, err := strconv.ParseInt(intDigits, 10, 64); err == nil {
		sb.WriteString(csvPrinter.Sprintf("%d", n))
	} else {
		sb.WriteString(groupDigits(intDigits))
	}
	sb.WriteString(fixed[len(fixed)-3:])
	return sb.String()
}

// groupDigits inserts thousands separators into a digit string too
// long for int64.
func groupDigits(digits string) string {
	var sb strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	sb.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		sb.WriteByte(',')
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}
