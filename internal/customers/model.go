package customers

import "time"

// Status is the customer approval state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Customer struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Gender        string    `json:"gender"`
	DOB           time.Time `json:"dob"`
	Address       string    `json:"address"`
	NIC           string    `json:"nic"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	AccountNumber string    `json:"accountNumber"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
