package customers

import "time"

type RegisterCustomerRequest struct {
	Name    string    `json:"name" validate:"required,max=100"`
	Gender  string    `json:"gender" validate:"required,oneof=male female other"`
	DOB     time.Time `json:"dob" validate:"required"`
	Address string    `json:"address" validate:"required,max=255"`
	NIC     string    `json:"nic" validate:"required,max=20"`
	Email   string    `json:"email" validate:"required,email"`
	Phone   string    `json:"phone" validate:"required,max=20"`
}

// UpdateCustomerRequest replaces every field except the account number,
// which is system-generated and immutable.
type UpdateCustomerRequest struct {
	Name    string    `json:"name" validate:"required,max=100"`
	Gender  string    `json:"gender" validate:"required,oneof=male female other"`
	DOB     time.Time `json:"dob" validate:"required"`
	Address string    `json:"address" validate:"required,max=255"`
	NIC     string    `json:"nic" validate:"required,max=20"`
	Email   string    `json:"email" validate:"required,email"`
	Phone   string    `json:"phone" validate:"required,max=20"`
}

type ListCustomersRequest struct {
	Search string
	Status *Status
}
