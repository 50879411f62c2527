package server

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/diarium/diarium/internal/ledger"
)

type createBookRequest struct {
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	Company    string `json:"company"`
	Accountant string `json:"accountant"`
	PlanID     int64  `json:"plan_id"`
}

func (s *Server) createBook(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	book, err := s.store.CreateBook(r.Context(), req.Month, req.Year, req.Company, req.Accountant, req.PlanID)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.store.ListBooks(r.Context())
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	if books == nil {
		books = []ledger.Book{}
	}
	writeJSON(w, http.StatusOK, books)
}

func (s *Server) getBook(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	book, err := s.store.GetBook(r.Context(), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, book)
}

type entryLineRequest struct {
	AccountID int64  `json:"account_id,omitempty"`
	Code      string `json:"code,omitempty"`
	Debit     string `json:"debit,omitempty"`
	Credit    string `json:"credit,omitempty"`
}

type entryRequest struct {
	Day   int                `json:"day"`
	Memo  string             `json:"memo,omitempty"`
	Lines []entryLineRequest `json:"lines"`
}

// buildDraft turns a request into a validated draft, resolving account
// codes against the book's plan.
func (s *Server) buildDraft(r *http.Request, bookID, entryID int64, req entryRequest) (*ledger.Draft, error) {
	book, err := s.store.GetBook(r.Context(), bookID)
	if err != nil {
		return nil, err
	}

	var draft *ledger.Draft
	if entryID == 0 {
		draft = ledger.NewDraft(bookID, req.Day)
	} else {
		draft = ledger.EditDraft(bookID, entryID, req.Day)
	}
	draft.Memo = req.Memo

	for _, ln := range req.Lines {
		accountID := ln.AccountID
		if accountID == 0 && ln.Code != "" {
			acc, err := s.store.FindAccountByCode(r.Context(), book.PlanID, ln.Code)
			if err != nil {
				return nil, err
			}
			accountID = acc.ID
		}
		debit, err := parseMoney(ln.Debit)
		if err != nil {
			return nil, err
		}
		credit, err := parseMoney(ln.Credit)
		if err != nil {
			return nil, err
		}
		draft.AddLine(accountID, debit, credit)
	}

	if err := draft.Validate(); err != nil {
		return nil, err
	}
	return draft, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	bookID, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	draft, err := s.buildDraft(r, bookID, 0, req)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	entry, err := s.store.SaveEntry(r.Context(), draft)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	existing, err := s.store.GetEntry(r.Context(), entryID)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	draft, err := s.buildDraft(r, existing.BookID, entryID, req)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	entry, err := s.store.SaveEntry(r.Context(), draft)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	entry, err := s.store.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.DeleteEntry(r.Context(), id); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	bookID, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	entries, err := s.store.ListEntries(r.Context(), bookID)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	if entries == nil {
		entries = []ledger.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
