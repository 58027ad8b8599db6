package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/mbtrace/mbcheckgo/internal/reports"
)

// dailyReport streams one day's audit trail as a PDF
func (r *Router) dailyReport(w http.ResponseWriter, req *http.Request) {
	date := mux.Vars(req)["date"]
	if _, err := time.Parse("2006-01-02", date); err != nil {
		respondError(w, http.StatusBadRequest, "Date must be YYYY-MM-DD")
		return
	}

	entries, err := r.store.Audit.Entries(date)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to read audit log: %v", err))
		return
	}

	pdfBytes, err := reports.DailyReportPDF(date, entries)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to generate PDF: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"audit_%s.pdf\"", date))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))

	w.Write(pdfBytes)
}

// generateLabels handles the label sheet PDF request
func (r *Router) generateLabels(w http.ResponseWriter, req *http.Request) {
	var config reports.LabelConfig
	if err := json.NewDecoder(req.Body).Decode(&config); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	// Validate defaults
	if config.Cols == 0 {
		config.Cols = 3
	}
	if config.Rows == 0 {
		config.Rows = 7
	}
	if config.Count == 0 {
		config.Count = config.Cols * config.Rows
	}

	pdfBytes, err := reports.ProgramLabelsPDF(config)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to generate PDF: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"labels_P%s.pdf\"", config.ProgramID))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))

	w.Write(pdfBytes)
}
