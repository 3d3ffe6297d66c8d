// Package handler: export.go implements GET /trips/{tripID}/export.
// Returns every hotel, activity and packing item of a trip as a flat table.
// Supports ?format=csv (CSV) or json (default).
package handler

import (
	"bytes"
	"encoding/csv"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-planner/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_title", "kind", "item_id", "item",
	"score", "average_rating", "assigned_to", "comments", "latest_comment", "added_at",
}

// GetExport handles GET /trips/{tripID}/export.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "format must be json or csv")
		return
	}

	tripID := chi.URLParam(r, "tripID")
	rows, err := s.trips.Export(r.Context(), tripID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if format == "csv" {
		writeCSV(w, tripID, rows)
		return
	}
	if rows == nil {
		rows = []domain.ExportRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// writeCSV encodes rows as CSV, header first, as a download named after the trip.
func writeCSV(w http.ResponseWriter, tripID string, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(rowToCSVRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if cd := mime.FormatMediaType("attachment", map[string]string{"filename": "trip-" + tripID + ".csv"}); cd != "" {
		w.Header().Set("Content-Disposition", cd)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// rowToCSVRecord encodes a row as a flat string slice. Fields that do not
// apply to the row's kind are empty.
func rowToCSVRecord(r domain.ExportRow) []string {
	var score, avg string
	if r.Score != nil {
		score = strconv.Itoa(*r.Score)
	}
	if r.AverageRating != nil {
		avg = strconv.FormatFloat(*r.AverageRating, 'f', 2, 64)
	}
	return []string{
		r.TripID,
		r.TripTitle,
		string(r.Kind),
		r.ItemID,
		r.Item,
		score,
		avg,
		r.AssignedTo,
		strconv.Itoa(r.Comments),
		r.LatestComment,
		r.AddedAt.UTC().Format(time.RFC3339),
	}
}
