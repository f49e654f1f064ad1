package masterdata

import (
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

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req SaveCategoryRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	category, err := h.service.CreateCategory(r.Context(), req)
	if err != nil {
		h.logger.Error("create category failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, category)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("list categories failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, categories)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	category, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req SaveCategoryRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	category, err := h.service.UpdateCategory(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update category failed", slog.Any("error", err), slog.Int64("id", id))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req SaveItemRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	item, err := h.service.CreateItem(r.Context(), req)
	if err != nil {
		h.logger.Error("create item failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	req := ListItemsRequest{Search: r.URL.Query().Get("search")}
	if c := r.URL.Query().Get("categoryId"); c != "" {
		id, err := strconv.ParseInt(c, 10, 64)
		if err != nil || id <= 0 {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid categoryId filter")
			return
		}
		req.CategoryID = &id
	}

	items, err := h.service.ListItems(r.Context(), req)
	if err != nil {
		h.logger.Error("list items failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req SaveItemRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	item, err := h.service.UpdateItem(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update item failed", slog.Any("error", err), slog.Int64("id", id))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeValid(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCategoryNotFound), errors.Is(err, ErrItemNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrAlreadyExists):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrCategoryInUse), errors.Is(err, ErrItemInUse):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
