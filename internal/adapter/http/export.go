package httpadapter

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Campaigns"

// handleAnalyticsExport streams the campaign overview as an xlsx workbook
// for offline use by campaign owners.
func (h *Handler) handleAnalyticsExport(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.svc.ListCampaigns(r.Context())
	if err != nil {
		h.analyticsError(w, err)
		return
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()
	_ = xl.SetSheetName("Sheet1", exportSheet)

	headers := []string{"Campaign", "Unique Devices", "Total Clicks", "Last Click"}
	for i, name := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = xl.SetCellValue(exportSheet, cell, name)
	}
	for row, s := range summaries {
		values := []any{s.CampaignID, s.UniqueDevices, s.TotalClicks, ""}
		if s.LastClick != nil {
			values[3] = s.LastClick.UTC().Format(time.RFC3339)
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = xl.SetCellValue(exportSheet, cell, v)
		}
	}

	filename := fmt.Sprintf("campaigns-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := xl.Write(w); err != nil {
		h.logger.Error("export write error", slog.Any("error", err))
	}
}
