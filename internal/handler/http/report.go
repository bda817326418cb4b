package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/handler/http/response"
	"github.com/cmlabs-hris/leave-management-go/internal/service/report"
)

type ReportHandler interface {
	AnnualLeaveReport(w http.ResponseWriter, r *http.Request)
}

type ReportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &ReportHandlerImpl{
		reportService: reportService,
	}
}

// AnnualLeaveReport implements ReportHandler. Streams the yearly leave
// usage report as a CSV download.
func (h *ReportHandlerImpl) AnnualLeaveReport(w http.ResponseWriter, r *http.Request) {
	year := time.Now().UTC().Year()
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			response.BadRequest(w, "year must be an integer", nil)
			return
		}
		year = parsed
	}

	csvData, err := h.reportService.AnnualLeaveCSV(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="leave-report-%d.csv"`, year))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(csvData)
}
