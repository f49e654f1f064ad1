package billing

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pahana-edu/billing/internal/platform/httpx"
)

// MailEnqueuer schedules invoice delivery for a committed bill.
type MailEnqueuer interface {
	EnqueueBillEmail(billID int64) (string, error)
}

type Handler struct {
	logger    *slog.Logger
	service   *Service
	enqueuer  MailEnqueuer
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, enqueuer MailEnqueuer) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		enqueuer:  enqueuer,
		validator: validator.New(),
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBillRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	id, err := h.service.CreateBill(r.Context(), req)
	if err != nil {
		h.logger.Error("create bill failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}

	w.Header().Set("Location", r.URL.Path+"/"+strconv.FormatInt(id, 10))
	httpx.JSON(w, http.StatusCreated, CreateBillResponse{ID: id})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid bill id")
		return
	}

	bill, err := h.service.GetBill(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, bill)
}

func (h *Handler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "customerId"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid customer id")
		return
	}

	bills, err := h.service.ListByCustomer(r.Context(), customerID)
	if err != nil {
		h.logger.Error("list bills failed", slog.Any("error", err), slog.Int64("customer_id", customerID))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, bills)
}

func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		h.logger.Error("billing statistics failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) MonthlyDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.MonthlyDetails(r.Context())
	if err != nil {
		h.logger.Error("monthly bill details failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, details)
}

// Send enqueues invoice delivery for an existing bill. The bill itself has
// already committed; a failure here never unwinds it.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid bill id")
		return
	}

	// Verify the bill exists and has a deliverable recipient before queueing.
	content, err := h.service.Content(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if content.CustomerEmail == "" {
		httpx.Problem(w, http.StatusConflict, "Conflict", "customer has no email address")
		return
	}

	deliveryID, err := h.enqueuer.EnqueueBillEmail(id)
	if err != nil {
		h.logger.Error("enqueue bill email failed", slog.Any("error", err), slog.Int64("bill_id", id))
		httpx.Problem(w, http.StatusBadGateway, "Delivery Failed", "could not schedule invoice delivery")
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"deliveryId": deliveryID})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidBill):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrItemNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInsufficientStock):
		httpx.Problem(w, http.StatusConflict, "Insufficient Stock", err.Error())
	case errors.Is(err, ErrBillNumberConflict):
		httpx.Problem(w, http.StatusConflict, "Bill Number Conflict", err.Error())
	default:
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
