package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"

	"github.com/wcpay/gtm-agent/internal/leadgen"
	"github.com/wcpay/gtm-agent/internal/model"
	"github.com/wcpay/gtm-agent/internal/outreach"
	"github.com/wcpay/gtm-agent/internal/store"
)

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.LeadFilter{
		Status:   model.LeadStatus(q.Get("status")),
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, eris.New("invalid limit"))
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, eris.New("invalid offset"))
			return
		}
		filter.Offset = n
	}

	leads, err := s.store.ListLeads(r.Context(), filter)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	var lead model.Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		writeError(w, http.StatusBadRequest, eris.New("invalid request body"))
		return
	}
	if lead.Company == "" {
		writeError(w, http.StatusBadRequest, eris.New("company is required"))
		return
	}

	created, err := s.store.CreateLead(r.Context(), &lead)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	lead, err := s.store.GetLead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (s *Server) handleUpdateLead(w http.ResponseWriter, r *http.Request) {
	var updates map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeError(w, http.StatusBadRequest, eris.New("invalid request body"))
		return
	}
	if len(updates) == 0 {
		writeError(w, http.StatusBadRequest, eris.New("no fields to update"))
		return
	}
	for col := range updates {
		if !store.ValidLeadColumn(col) {
			writeError(w, http.StatusBadRequest, eris.Errorf("unknown field %q", col))
			return
		}
	}

	id := chi.URLParam(r, "id")
	if err := s.store.UpdateLead(r.Context(), id, updates); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	lead, err := s.store.GetLead(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (s *Server) handleDeleteLead(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.DeleteLeads(r.Context(), []string{chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, store.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	lead, err := s.enricher.Enrich(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Platform model.Platform `json:"platform"`
	}
	// Body is optional; platform defaults to email.
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Platform == "" {
		req.Platform = model.PlatformEmail
	}

	msg, err := s.drafter.Draft(r.Context(), chi.URLParam(r, "id"), req.Platform)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MessageID string `json:"message_id"`
		Force     bool   `json:"force,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, eris.New("invalid request body"))
		return
	}
	if req.MessageID == "" {
		writeError(w, http.StatusBadRequest, eris.New("message_id is required"))
		return
	}

	msg, err := s.sender.Send(r.Context(), req.MessageID, req.Force)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) handleQualifyBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, eris.New("invalid request body"))
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, eris.New("ids is required"))
		return
	}

	results := s.enricher.Batch(r.Context(), req.IDs)
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req leadgen.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, eris.New("invalid request body"))
		return
	}

	leads, err := s.generator.Generate(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (s *Server) handleDueFollowUps(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.store.ListDueFollowUps(r.Context(), time.Now().UTC())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) handleProcessFollowUps(w http.ResponseWriter, r *http.Request) {
	results, err := s.sender.ProcessDue(r.Context(), time.Now().UTC())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if results == nil {
		results = []outreach.FollowUpResult{}
	}
	writeJSON(w, http.StatusOK, results)
}
