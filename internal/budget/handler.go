package budget

import (
	"encoding/json"
	"net/http"

	"expense-approval/internal/transport"
	"expense-approval/internal/user"
	"expense-approval/pkg/logger"

	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateBudget(dto CreateBudgetDTO) (*Budget, error)
	GetBudget(id string) (*Budget, error)
	UpdateBudget(id string, dto UpdateBudgetDTO) (*Budget, error)
	DeleteBudget(id string) error
	GetBudgetStatuses(userID string) ([]BudgetStatus, error)
	GetBudgetStatus(id string) (*BudgetStatus, error)
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

func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var dto CreateBudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.Service.CreateBudget(dto)
	if err != nil {
		h.Logger.Error("CreateBudget: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, b)
}

func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	b, err := h.Service.GetBudget(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	var dto UpdateBudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.Service.UpdateBudget(chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteBudget(chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetBudgetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.Service.GetBudgetStatus(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, status)
}

// GetMyBudgetStatuses returns utilization for the caller's budgets plus the
// global ones.
func (h *Handler) GetMyBudgetStatuses(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	statuses, err := h.Service.GetBudgetStatuses(u.ID)
	if err != nil {
		h.Logger.Error("GetMyBudgetStatuses: service error", "error", err, "user_id", u.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, BudgetStatusesResponse{Statuses: statuses})
}
