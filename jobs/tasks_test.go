package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/pahana-edu/billing/internal/billing"
	"github.com/pahana-edu/billing/internal/mail"
)

func TestEnqueueBillEmail(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(asynq.RedisClientOpt{Addr: srv.Addr()})
	require.NoError(t, err)
	defer client.Close()

	deliveryID, err := client.EnqueueBillEmail(42)
	require.NoError(t, err)
	require.NotEmpty(t, deliveryID)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: srv.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListPendingTasks(QueueDefault)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, TaskTypeBillEmail, tasks[0].Type)

	var payload BillEmailPayload
	require.NoError(t, json.Unmarshal(tasks[0].Payload, &payload))
	require.Equal(t, int64(42), payload.BillID)
	require.Equal(t, deliveryID, payload.DeliveryID)
}

func TestEnqueueBillEmailUniqueDeliveryIDs(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(asynq.RedisClientOpt{Addr: srv.Addr()})
	require.NoError(t, err)
	defer client.Close()

	first, err := client.EnqueueBillEmail(1)
	require.NoError(t, err)
	second, err := client.EnqueueBillEmail(1)
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

type stubLoader struct {
	content *billing.BillContent
	err     error
}

func (s *stubLoader) Content(context.Context, int64) (*billing.BillContent, error) {
	return s.content, s.err
}

type stubSender struct {
	to  string
	err error
}

func (s *stubSender) Send(_ context.Context, to, _, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.to = to
	return nil
}

func billEmailTask(t *testing.T, billID int64) *asynq.Task {
	t.Helper()
	task, err := NewBillEmailTask(BillEmailPayload{BillID: billID, DeliveryID: "d-1"})
	require.NoError(t, err)
	return task
}

func testContent() *billing.BillContent {
	return &billing.BillContent{
		BillID:        7,
		BillNo:        "BILL-20260314-0001",
		CustomerName:  "Amali Perera",
		CustomerEmail: "amali@example.com",
		TotalAmount:   1200,
		CreatedAt:     time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		BillItems:     []billing.BillContentItem{{ItemName: "Notebook", Quantity: 2, UnitPrice: 600, Subtotal: 1200}},
	}
}

func TestProcessTaskDeliversInvoice(t *testing.T) {
	sender := &stubSender{}
	processor := NewBillEmailProcessor(
		&stubLoader{content: testContent()},
		mail.NewMailer(sender),
		slog.Default(),
	)

	err := processor.ProcessTask(context.Background(), billEmailTask(t, 7))
	require.NoError(t, err)
	require.Equal(t, "amali@example.com", sender.to)
}

func TestProcessTaskSkipsRetryWhenBillMissing(t *testing.T) {
	processor := NewBillEmailProcessor(
		&stubLoader{err: billing.ErrNotFound},
		mail.NewMailer(&stubSender{}),
		slog.Default(),
	)

	err := processor.ProcessTask(context.Background(), billEmailTask(t, 404))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestProcessTaskRetriesOnDeliveryFailure(t *testing.T) {
	sendErr := errors.New("relay down")
	processor := NewBillEmailProcessor(
		&stubLoader{content: testContent()},
		mail.NewMailer(&stubSender{err: sendErr}),
		slog.Default(),
	)

	err := processor.ProcessTask(context.Background(), billEmailTask(t, 7))
	require.Error(t, err)
	require.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestProcessTaskMalformedPayload(t *testing.T) {
	processor := NewBillEmailProcessor(
		&stubLoader{content: testContent()},
		mail.NewMailer(&stubSender{}),
		slog.Default(),
	)

	err := processor.ProcessTask(context.Background(), asynq.NewTask(TaskTypeBillEmail, []byte("{not json")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}
