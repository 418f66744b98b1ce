package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"shoplist/internal/core"
	"shoplist/internal/services"
)

// listView is a list snapshot together with its derived figures.
type listView struct {
	core.List
	Summary core.Summary `json:"summary"`
}

func viewOf(l core.List) listView {
	return listView{List: l, Summary: core.Summarize(l)}
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady checks that the list store answers within a short deadline.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"lists": "ok"}
	status, code := "ready", http.StatusOK
	if _, err := s.lists.ListLists(ctx, ""); err != nil {
		checks["lists"] = "failed: " + err.Error()
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	limits := s.limiter.GetMetrics()
	sec := s.detector.GetMetrics()
	reqs := s.tracer.GetMetrics()
	NewJSONResponse().Status(code).Data(map[string]any{
		"status": status,
		"checks": checks,
		"metrics": map[string]any{
			"requests":            reqs.TotalRequests,
			"server_errors":       reqs.ServerErrors,
			"avg_response_ms":     reqs.AverageResponseTime().Milliseconds(),
			"rate_limited":        limits.TotalHits,
			"rate_limit_clients":  limits.ClientCount,
			"suspicious_requests": sec.SuspiciousRequests,
		},
	}).Write(w)
}

func (s *Server) handleListLists(w http.ResponseWriter, r *http.Request) {
	query := sanitizeInput(r.URL.Query().Get("q"))
	all, err := s.lists.ListLists(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]listView, 0, len(all))
	for _, l := range all {
		views = append(views, viewOf(l))
	}
	NewJSONResponse().Data(map[string]any{"lists": views}).Write(w)
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := decodeJSON(w, r, s.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	budget, err := req.Budget.decimal("total_budget")
	if err != nil {
		writeError(w, r, err)
		return
	}
	l, err := s.lists.CreateList(r.Context(), services.NewListInput{
		Name:     sanitizeInput(req.Name),
		Category: core.ParseListCategory(req.Category),
		Budget:   budget,
		Note:     sanitizeInput(req.Note),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/lists/"+l.ID).
		Data(viewOf(l)).
		Write(w)
}

func (s *Server) handleGetList(w http.ResponseWriter, r *http.Request) {
	l, err := s.lists.GetList(r.Context(), chi.URLParam(r, "listID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Data(viewOf(l)).Write(w)
}

func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	if err := s.lists.DeleteList(r.Context(), chi.URLParam(r, "listID")); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleClearCompleted(w http.ResponseWriter, r *http.Request) {
	l, removed, err := s.lists.ClearCompleted(r.Context(), chi.URLParam(r, "listID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Data(map[string]any{
		"removed": removed,
		"list":    viewOf(l),
	}).Write(w)
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	ref, err := s.lists.Share(r.Context(), chi.URLParam(r, "listID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Data(map[string]string{"ref": ref}).Write(w)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := s.lists.Overview(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Data(ov).Write(w)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	show, err := queryBool(r, "show_completed", true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := s.lists.Items(r.Context(), chi.URLParam(r, "listID"), show)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Data(map[string]any{
		"items":          items,
		"show_completed": show,
	}).Write(w)
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(w, r, s.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	l, item, err := s.lists.AddItem(r.Context(), chi.URLParam(r, "listID"), sanitizeInput(req.Name), req.AutoCategorize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Data(map[string]any{"item": item, "list": viewOf(l)}).
		Write(w)
}

func (s *Server) handlePatchItem(w http.ResponseWriter, r *http.Request) {
	var req patchItemRequest
	if err := decodeJSON(w, r, s.validate, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.empty() {
		UnprocessableEntityError("one of quantity, unit_price or category is required", "").Write(w)
		return
	}

	patch := services.ItemPatch{Quantity: req.Quantity}
	if req.UnitPrice != nil {
		price, err := req.UnitPrice.decimal("unit_price")
		if err != nil {
			writeError(w, r, err)
			return
		}
		patch.UnitPrice = &price
	}
	if req.Category != nil {
		cat := strings.TrimSpace(sanitizeInput(*req.Category))
		patch.Category = &cat
	}

	l, err := s.lists.UpdateItem(r.Context(), chi.URLParam(r, "listID"), chi.URLParam(r, "itemID"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Data(viewOf(l)).Write(w)
}

func (s *Server) handleToggleItem(w http.ResponseWriter, r *http.Request) {
	l, err := s.lists.ToggleItem(r.Context(), chi.URLParam(r, "listID"), chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Data(viewOf(l)).Write(w)
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	l, err := s.lists.RemoveItem(r.Context(), chi.URLParam(r, "listID"), chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Data(viewOf(l)).Write(w)
}
