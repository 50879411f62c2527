package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/diarium/diarium/internal/ledger"
)

type createNodeRequest struct {
	PlanID      int64  `json:"plan_id,omitempty"`
	ParentID    int64  `json:"parent_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Code        string `json:"code,omitempty"`
}

type updateNodeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Code        string `json:"code"`
	ParentID    *int64 `json:"parent_id,omitempty"`
}

func (s *Server) createType(w http.ResponseWriter, r *http.Request) {
	var req createNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	t, err := s.store.CreateType(r.Context(), req.PlanID, req.Name, req.Code)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) listTypes(w http.ResponseWriter, r *http.Request) {
	planID, _ := queryID(r, "plan")
	types, err := s.store.ListTypes(r.Context(), planID)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	if types == nil {
		types = []ledger.AccountType{}
	}
	writeJSON(w, http.StatusOK, types)
}

func (s *Server) getType(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	t, err := s.store.GetType(r.Context(), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) updateType(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req updateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := s.store.UpdateType(r.Context(), id, req.Name, req.Code); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	t, err := s.store.GetType(r.Context(), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteType(w http.ResponseWriter, r *http.Request) {
	s.deleteNode(w, r, s.store.DeleteType)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req createNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	c, err := s.store.CreateCategory(r.Context(), req.ParentID, req.Name, req.Code)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	typeID, ok := queryID(r, "type")
	if !ok {
		writeError(w, http.StatusBadRequest, "type query parameter required")
		return
	}
	cats, err := s.store.ListCategories(r.Context(), typeID)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	if cats == nil {
		cats = []ledger.AccountCategory{}
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	c, err := s.store.GetCategory(r.Context(), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req updateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := s.store.UpdateCategory(r.Context(), id, req.Name, req.Code, req.ParentID); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	c, err := s.store.GetCategory(r.Context(), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	s.deleteNode(w, r, s.store.DeleteCategory)
}

func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	g, err := s.store.CreateGroup(r.Context(), req.ParentID, req.Name, req.Code)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := queryID(r, "category")
	if !ok {
		writeError(w, http.StatusBadRequest, "category query parameter required")
		return
	}
	groups, err := s.store.ListGroups(r.Context(), categoryID)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	if groups == nil {
		groups = []ledger.AccountGroup{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) getGroup(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	g, err := s.store.GetGroup(r.Context(), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) updateGroup(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req updateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := s.store.UpdateGroup(r.Context(), id, req.Name, req.Code, req.ParentID); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	g, err := s.store.GetGroup(r.Context(), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) deleteGroup(w http.ResponseWriter, r *http.Request) {
	s.deleteNode(w, r, s.store.DeleteGroup)
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	a, err := s.store.CreateAccount(r.Context(), req.ParentID, req.Name, req.Description, req.Code)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	groupID, ok := queryID(r, "group")
	if !ok {
		writeError(w, http.StatusBadRequest, "group query parameter required")
		return
	}
	accounts, err := s.store.ListAccounts(r.Context(), groupID)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	if accounts == nil {
		accounts = []ledger.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	a, err := s.store.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req updateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := s.store.UpdateAccount(r.Context(), id, req.Name, req.Description, req.Code, req.ParentID); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	a, err := s.store.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	s.deleteNode(w, r, s.store.DeleteAccount)
}

func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id int64) error) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := del(r.Context(), id); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
