package customers

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// memRepository is an in-memory Repository. WithTx just reuses the same
// store; the transactional paths under test never fail mid-way.
type memRepository struct {
	nextID    int64
	customers map[int64]Customer
}

func newMemRepository() *memRepository {
	return &memRepository{nextID: 1, customers: map[int64]Customer{}}
}

func (r *memRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memRepository) Get(_ context.Context, id int64) (*Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *memRepository) List(_ context.Context, req ListCustomersRequest) ([]Customer, error) {
	list := []Customer{}
	for id := int64(1); id < r.nextID; id++ {
		c, ok := r.customers[id]
		if !ok {
			continue
		}
		if req.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(req.Search)) {
			continue
		}
		if req.Status != nil && c.Status != *req.Status {
			continue
		}
		list = append(list, c)
	}
	return list, nil
}

func (r *memRepository) Create(_ context.Context, customer Customer) (int64, error) {
	for _, existing := range r.customers {
		if existing.Email == customer.Email || existing.NIC == customer.NIC {
			return 0, ErrAlreadyExists
		}
	}
	customer.ID = r.nextID
	r.nextID++
	r.customers[customer.ID] = customer
	return customer.ID, nil
}

func (r *memRepository) Update(_ context.Context, id int64, customer Customer) error {
	existing, ok := r.customers[id]
	if !ok {
		return ErrNotFound
	}
	existing.Name = customer.Name
	existing.Gender = customer.Gender
	existing.DOB = customer.DOB
	existing.Address = customer.Address
	existing.NIC = customer.NIC
	existing.Email = customer.Email
	existing.Phone = customer.Phone
	r.customers[id] = existing
	return nil
}

func (r *memRepository) UpdateStatus(_ context.Context, id int64, status Status) error {
	existing, ok := r.customers[id]
	if !ok {
		return ErrNotFound
	}
	existing.Status = status
	r.customers[id] = existing
	return nil
}

func (r *memRepository) Delete(_ context.Context, id int64) error {
	if _, ok := r.customers[id]; !ok {
		return ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *memRepository) NextAccountNumber(context.Context) (string, error) {
	return fmt.Sprintf("ACC%03d", len(r.customers)+1), nil
}

func registerReq(name, nic, email string) RegisterCustomerRequest {
	return RegisterCustomerRequest{
		Name:    name,
		Gender:  "female",
		DOB:     time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC),
		Address: "12 Temple Road, Colombo",
		NIC:     nic,
		Email:   email,
		Phone:   "0771234567",
	}
}

func TestRegisterAssignsAccountNumberAndPendingStatus(t *testing.T) {
	repo := newMemRepository()
	svc := NewService(repo)

	first, err := svc.Register(context.Background(), registerReq("Amali Perera", "905201234V", "amali@example.com"))
	require.NoError(t, err)
	require.Equal(t, "ACC001", first.AccountNumber)
	require.Equal(t, StatusPending, first.Status)

	second, err := svc.Register(context.Background(), registerReq("Nuwan Silva", "881234567V", "nuwan@example.com"))
	require.NoError(t, err)
	require.Equal(t, "ACC002", second.AccountNumber)
}

func TestRegisterDuplicate(t *testing.T) {
	repo := newMemRepository()
	svc := NewService(repo)

	_, err := svc.Register(context.Background(), registerReq("Amali Perera", "905201234V", "amali@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerReq("Someone Else", "905201234V", "other@example.com"))
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUpdatePreservesAccountNumberAndStatus(t *testing.T) {
	repo := newMemRepository()
	svc := NewService(repo)

	created, err := svc.Register(context.Background(), registerReq("Amali Perera", "905201234V", "amali@example.com"))
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, approved.Status)

	updated, err := svc.Update(context.Background(), created.ID, UpdateCustomerRequest{
		Name:    "Amali Fernando",
		Gender:  "female",
		DOB:     created.DOB,
		Address: created.Address,
		NIC:     created.NIC,
		Email:   "amali.f@example.com",
		Phone:   created.Phone,
	})
	require.NoError(t, err)
	require.Equal(t, "Amali Fernando", updated.Name)
	require.Equal(t, "amali.f@example.com", updated.Email)
	require.Equal(t, created.AccountNumber, updated.AccountNumber)
	require.Equal(t, StatusApproved, updated.Status)
}

func TestUpdateMissingCustomer(t *testing.T) {
	svc := NewService(newMemRepository())

	_, err := svc.Update(context.Background(), 42, UpdateCustomerRequest{
		Name:    "Nobody",
		Gender:  "other",
		DOB:     time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Address: "Nowhere",
		NIC:     "111111111V",
		Email:   "nobody@example.com",
		Phone:   "0770000000",
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestApproveRejectTransitions(t *testing.T) {
	repo := newMemRepository()
	svc := NewService(repo)

	created, err := svc.Register(context.Background(), registerReq("Amali Perera", "905201234V", "amali@example.com"))
	require.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusRejected, rejected.Status)

	approved, err := svc.Approve(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, approved.Status)

	_, err = svc.Approve(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListFiltersByStatus(t *testing.T) {
	repo := newMemRepository()
	svc := NewService(repo)

	a, err := svc.Register(context.Background(), registerReq("Amali Perera", "905201234V", "amali@example.com"))
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), registerReq("Nuwan Silva", "881234567V", "nuwan@example.com"))
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), a.ID)
	require.NoError(t, err)

	pending := StatusPending
	list, err := svc.List(context.Background(), ListCustomersRequest{Status: &pending})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Nuwan Silva", list[0].Name)

	all, err := svc.List(context.Background(), ListCustomersRequest{})
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestDelete(t *testing.T) {
	repo := newMemRepository()
	svc := NewService(repo)

	created, err := svc.Register(context.Background(), registerReq("Amali Perera", "905201234V", "amali@example.com"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	require.ErrorIs(t, svc.Delete(context.Background(), created.ID), ErrNotFound)
}
