package expense

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"expense-approval/internal/auditlog"
	"expense-approval/internal/transport"
	"expense-approval/internal/user"
	"expense-approval/pkg/logger"

	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateExpense(creatorID string, creatorRole user.Role, dto CreateExpenseDTO) (*ExpenseRequest, error)
	GetExpense(id, userID string, role user.Role) (*ExpenseRequest, error)
	ListExpenses(params ListParams, userID string, role user.Role) (*ListExpensesResponse, error)
	UpdateExpense(id, userID string, dto UpdateExpenseDTO) (*ExpenseRequest, error)
	SubmitExpense(ctx context.Context, id, userID string) (*ExpenseRequest, error)
	ApproveExpense(ctx context.Context, id, actorID string, actorRole user.Role) (*ExpenseRequest, error)
	RejectExpense(ctx context.Context, id, actorID string, actorRole user.Role, reason string) (*ExpenseRequest, error)
	AddAttachment(id, userID, url string) (*ExpenseRequest, error)
	RemoveAttachment(id, userID, url string) (*ExpenseRequest, error)
	DeleteExpense(id, userID string) error
	GetAuditHistory(id string) ([]*auditlog.AuditLog, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     service,
	}
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := h.Service.CreateExpense(u.ID, u.Role, dto)
	if err != nil {
		h.Logger.Error("CreateExpense: service error", "error", err, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, exp)
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	exp, err := h.Service.GetExpense(chi.URLParam(r, "id"), u.ID, u.Role)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, exp)
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	params := parseListParams(r)
	resp, err := h.Service.ListExpenses(params, u.ID, u.Role)
	if err != nil {
		h.Logger.Error("ListExpenses: service error", "error", err, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func parseListParams(r *http.Request) ListParams {
	q := r.URL.Query()

	params := ListParams{
		Search: q.Get("search"),
		Status: q.Get("status"),
		SortBy: q.Get("sort_by"),
	}
	params.SortDesc = q.Get("sort_order") == "desc"

	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = page
	}
	if pageSize, err := strconv.Atoi(q.Get("page_size")); err == nil {
		params.PageSize = pageSize
	}
	if from, err := time.Parse("2006-01-02", q.Get("date_from")); err == nil {
		params.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", q.Get("date_to")); err == nil {
		params.DateTo = &to
	}
	if min, err := strconv.ParseInt(q.Get("amount_min"), 10, 64); err == nil {
		params.AmountMin = &min
	}
	if max, err := strconv.ParseInt(q.Get("amount_max"), 10, 64); err == nil {
		params.AmountMax = &max
	}

	return params
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UpdateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := h.Service.UpdateExpense(chi.URLParam(r, "id"), u.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, exp)
}

func (h *Handler) SubmitExpense(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	exp, err := h.Service.SubmitExpense(r.Context(), chi.URLParam(r, "id"), u.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, exp)
}

func (h *Handler) ApproveExpense(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	exp, err := h.Service.ApproveExpense(r.Context(), chi.URLParam(r, "id"), u.ID, u.Role)
	if err != nil {
		h.Logger.Error("ApproveExpense: service error", "error", err, "expense_id", chi.URLParam(r, "id"), "actor_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, exp)
}

func (h *Handler) RejectExpense(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto RejectExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	exp, err := h.Service.RejectExpense(r.Context(), chi.URLParam(r, "id"), u.ID, u.Role, dto.Reason)
	if err != nil {
		h.Logger.Error("RejectExpense: service error", "error", err, "expense_id", chi.URLParam(r, "id"), "actor_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, exp)
}

func (h *Handler) AddAttachment(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto AttachmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := h.Service.AddAttachment(chi.URLParam(r, "id"), u.ID, dto.URL)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, exp)
}

func (h *Handler) RemoveAttachment(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto AttachmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := h.Service.RemoveAttachment(chi.URLParam(r, "id"), u.ID, dto.URL)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, exp)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.Service.DeleteExpense(chi.URLParam(r, "id"), u.ID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetAuditHistory(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	logs, err := h.Service.GetAuditHistory(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"audit_logs": logs,
	})
}
