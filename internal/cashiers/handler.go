package cashiers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pahana-edu/billing/internal/platform/httpx"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterCashierRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	cashier, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.logger.Error("register cashier failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, cashier)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := ListCashiersRequest{Search: r.URL.Query().Get("search")}
	if s := r.URL.Query().Get("status"); s != "" {
		status := Status(s)
		req.Status = &status
	}

	cashiers, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list cashiers failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cashiers)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	cashier, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cashier)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req UpdateCashierRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	cashier, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update cashier failed", slog.Any("error", err), slog.Int64("id", id))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cashier)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.service.Approve)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.service.Reject)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64) (*Cashier, error)) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	cashier, err := fn(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cashier)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid cashier id")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrAlreadyExists):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	default:
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
