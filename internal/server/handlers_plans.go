package server

import (
	"encoding/json"
	"net/http"

	"github.com/diarium/diarium/internal/ledger"
)

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	plan, err := s.store.CreatePlan(r.Context(), req.Name)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.store.ListPlans(r.Context())
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	if plans == nil {
		plans = []ledger.Plan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	plan, err := s.store.GetPlan(r.Context(), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) clonePlan(w http.ResponseWriter, r *http.Request) {
	src, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Destination int64 `json:"destination"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	copied, err := s.store.ClonePlan(r.Context(), src, req.Destination)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"source":      src,
		"destination": req.Destination,
		"copied":      copied,
	})
}

func (s *Server) listPlanAccounts(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	accounts, err := s.store.ListPlanAccounts(r.Context(), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	if accounts == nil {
		accounts = []ledger.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}
