package billing

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type stubEnqueuer struct {
	billID int64
	id     string
	err    error
}

func (s *stubEnqueuer) EnqueueBillEmail(billID int64) (string, error) {
	s.billID = billID
	return s.id, s.err
}

// emailRepo decorates memRepo with a customer email for the send path.
type emailRepo struct {
	*memRepo
	email string
}

func (r *emailRepo) BillContent(ctx context.Context, billID int64) (*BillContent, error) {
	content, err := r.memRepo.BillContent(ctx, billID)
	if err != nil {
		return nil, err
	}
	content.CustomerEmail = r.email
	return content, nil
}

func newTestRouter(t *testing.T, repo RepositoryPort, enqueuer MailEnqueuer) chi.Router {
	t.Helper()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }
	handler := NewHandler(slog.Default(), svc, enqueuer)
	r := chi.NewRouter()
	r.Route("/bills", handler.MountRoutes)
	return r
}

func createBillBody() string {
	return `{
		"customerId": 7,
		"totalAmount": 900,
		"billItems": [
			{"itemId": 1, "quantity": 3, "unitPrice": 300, "subtotal": 900}
		]
	}`
}

func TestCreateBillEndpoint(t *testing.T) {
	repo := newMemRepo(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	repo.state.stock[1] = 10
	router := newTestRouter(t, repo, &stubEnqueuer{})

	req := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(createBillBody()))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "/bills/1", rec.Header().Get("Location"))

	var resp map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(1), resp["id"])
}

func TestCreateBillEndpointInsufficientStock(t *testing.T) {
	repo := newMemRepo(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	repo.state.stock[1] = 1
	router := newTestRouter(t, repo, &stubEnqueuer{})

	req := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(createBillBody()))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "Insufficient Stock")
}

func TestCreateBillEndpointMalformedBody(t *testing.T) {
	repo := newMemRepo(time.Now())
	router := newTestRouter(t, repo, &stubEnqueuer{})

	req := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader("{broken"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBillEndpointFieldNames(t *testing.T) {
	repo := newMemRepo(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	repo.state.stock[1] = 10
	router := newTestRouter(t, repo, &stubEnqueuer{})

	post := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(createBillBody()))
	post.Header.Set("Content-Type", "application/json")
	postRec := httptest.NewRecorder()
	router.ServeHTTP(postRec, post)
	require.Equal(t, http.StatusCreated, postRec.Code)

	get := httptest.NewRequest(http.MethodGet, "/bills/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, get)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	for _, key := range []string{"id", "billNo", "customerId", "totalAmount", "billItems", "createdAt", "updatedAt"} {
		require.Contains(t, body, key)
	}
	items := body["billItems"].([]any)
	require.Len(t, items, 1)
	line := items[0].(map[string]any)
	for _, key := range []string{"itemId", "quantity", "unitPrice", "subtotal"} {
		require.Contains(t, line, key)
	}
}

func TestGetBillEndpointNotFound(t *testing.T) {
	router := newTestRouter(t, newMemRepo(time.Now()), &stubEnqueuer{})

	req := httptest.NewRequest(http.MethodGet, "/bills/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendBillEndpoint(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	repo := newMemRepo(now)
	repo.state.stock[1] = 10
	enqueuer := &stubEnqueuer{id: "delivery-123"}
	router := newTestRouter(t, &emailRepo{memRepo: repo, email: "amali@example.com"}, enqueuer)

	post := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(createBillBody()))
	post.Header.Set("Content-Type", "application/json")
	postRec := httptest.NewRecorder()
	router.ServeHTTP(postRec, post)
	require.Equal(t, http.StatusCreated, postRec.Code)

	send := httptest.NewRequest(http.MethodPost, "/bills/1/send", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, send)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, int64(1), enqueuer.billID)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "delivery-123", resp["deliveryId"])
}

func TestSendBillEndpointNoEmail(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	repo := newMemRepo(now)
	repo.state.stock[1] = 10
	router := newTestRouter(t, repo, &stubEnqueuer{id: "never"})

	post := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(createBillBody()))
	post.Header.Set("Content-Type", "application/json")
	postRec := httptest.NewRecorder()
	router.ServeHTTP(postRec, post)
	require.Equal(t, http.StatusCreated, postRec.Code)

	send := httptest.NewRequest(http.MethodPost, "/bills/1/send", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, send)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestSendBillEndpointEnqueueFailure(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	repo := newMemRepo(now)
	repo.state.stock[1] = 10
	enqueuer := &stubEnqueuer{err: errors.New("redis down")}
	router := newTestRouter(t, &emailRepo{memRepo: repo, email: "amali@example.com"}, enqueuer)

	post := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(createBillBody()))
	post.Header.Set("Content-Type", "application/json")
	postRec := httptest.NewRecorder()
	router.ServeHTTP(postRec, post)
	require.Equal(t, http.StatusCreated, postRec.Code)

	send := httptest.NewRequest(http.MethodPost, "/bills/1/send", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, send)
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestStatisticsEndpoint(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	repo := newMemRepo(now)
	repo.state.stock[1] = 10
	router := newTestRouter(t, repo, &stubEnqueuer{})

	post := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(createBillBody()))
	post.Header.Set("Content-Type", "application/json")
	postRec := httptest.NewRecorder()
	router.ServeHTTP(postRec, post)
	require.Equal(t, http.StatusCreated, postRec.Code)

	req := httptest.NewRequest(http.MethodGet, "/bills/statistics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body, "monthlyStats")
	require.Contains(t, body, "totalBilling")
	require.Equal(t, 900.0, body["totalBilling"])
}
