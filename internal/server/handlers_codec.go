package server

import (
	"fmt"
	"net/http"
)

func (s *Server) exportBook(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	withChart := r.URL.Query().Get("chart") == "1" || r.URL.Query().Get("chart") == "true"

	book, err := s.store.GetBook(r.Context(), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	filename := fmt.Sprintf("journal-%04d-%02d.xlsx", book.Year, book.Month)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := s.codec.Export(r.Context(), id, withChart, w); err != nil {
		// Headers are already out; log instead of rewriting the response.
		s.log.Error().Err(err).Int64("book", id).Msg("export failed")
	}
}

func (s *Server) importBook(w http.ResponseWriter, r *http.Request) {
	planID, _ := queryID(r, "plan")
	book, err := s.codec.Import(r.Context(), r.Body, planID)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, book)
}
