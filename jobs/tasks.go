package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/pahana-edu/billing/internal/billing"
	"github.com/pahana-edu/billing/internal/mail"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeBillEmail is the task type for delivering invoice emails.
	TaskTypeBillEmail = "bill:email"
)

// BillEmailPayload identifies the bill whose invoice should be mailed. The
// invoice content is loaded at processing time so the email always reflects
// the committed bill.
type BillEmailPayload struct {
	BillID     int64  `json:"billId"`
	DeliveryID string `json:"deliveryId"`
}

// NewBillEmailTask constructs an Asynq task.
func NewBillEmailTask(payload BillEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeBillEmail, data), nil
}

// ContentLoader resolves a bill into its mail-ready content.
type ContentLoader interface {
	Content(ctx context.Context, billID int64) (*billing.BillContent, error)
}

// BillEmailProcessor renders and delivers invoice emails from the queue.
type BillEmailProcessor struct {
	loader ContentLoader
	mailer *mail.Mailer
	logger *slog.Logger
}

func NewBillEmailProcessor(loader ContentLoader, mailer *mail.Mailer, logger *slog.Logger) *BillEmailProcessor {
	return &BillEmailProcessor{loader: loader, mailer: mailer, logger: logger}
}

// ProcessTask handles TaskTypeBillEmail tasks.
func (p *BillEmailProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload BillEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	content, err := p.loader.Content(ctx, payload.BillID)
	if err != nil {
		// A bill that no longer resolves will never resolve on retry.
		p.logger.Error("load bill content failed",
			slog.Any("error", err), slog.Int64("bill_id", payload.BillID))
		return asynq.SkipRetry
	}

	if err := p.mailer.SendInvoice(ctx, *content); err != nil {
		p.logger.Error("invoice delivery failed",
			slog.Any("error", err),
			slog.Int64("bill_id", payload.BillID),
			slog.String("delivery_id", payload.DeliveryID))
		return err
	}

	p.logger.Info("invoice delivered",
		slog.String("bill_no", content.BillNo),
		slog.String("to", content.CustomerEmail),
		slog.String("delivery_id", payload.DeliveryID))
	return nil
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) (*Client, error) {
	client := asynq.NewClient(redisOpts)
	return &Client{client: client}, nil
}

// EnqueueBillEmail schedules invoice delivery for a bill and returns the
// delivery identifier handed back to the caller.
func (c *Client) EnqueueBillEmail(billID int64) (string, error) {
	deliveryID := uuid.NewString()
	task, err := NewBillEmailTask(BillEmailPayload{BillID: billID, DeliveryID: deliveryID})
	if err != nil {
		return "", err
	}
	if _, err := c.client.Enqueue(task, asynq.Queue(QueueDefault), asynq.MaxRetry(5)); err != nil {
		return "", err
	}
	return deliveryID, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
