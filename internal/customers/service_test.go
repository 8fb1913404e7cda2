package customers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hindustan-tiles/tiles-erp/internal/shared"
)

type memoryCustomerRepo struct {
	customers map[int64]*Customer
	nextID    int64
}

func newMemoryCustomerRepo() *memoryCustomerRepo {
	return &memoryCustomerRepo{customers: map[int64]*Customer{}}
}

func (r *memoryCustomerRepo) Get(_ context.Context, id int64) (*Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memoryCustomerRepo) List(_ context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	var out []Customer
	for _, c := range r.customers {
		if req.Search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(req.Search)) {
			out = append(out, *c)
		}
	}
	return out, len(out), nil
}

func (r *memoryCustomerRepo) Create(_ context.Context, c Customer) (int64, error) {
	for _, existing := range r.customers {
		if c.Phone != nil && existing.Phone != nil && *c.Phone == *existing.Phone {
			return 0, ErrDuplicatePhone
		}
	}
	r.nextID++
	c.ID = r.nextID
	c.IsActive = true
	r.customers[c.ID] = &c
	return c.ID, nil
}

func (r *memoryCustomerRepo) Update(_ context.Context, id int64, req UpdateCustomerRequest) error {
	c, ok := r.customers[id]
	if !ok {
		return shared.ErrNotFound
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Phone != nil {
		c.Phone = req.Phone
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

func TestCreateCustomer(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())

	c, err := svc.Create(context.Background(), CreateCustomerRequest{
		Name:  "  Sharma Traders  ",
		Phone: ptr("9876543210"),
	})
	require.NoError(t, err)
	require.Equal(t, "Sharma Traders", c.Name)
	require.True(t, c.IsActive)
}

func TestCreateRejectsBlankName(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())

	_, err := svc.Create(context.Background(), CreateCustomerRequest{Name: "   "})
	require.Error(t, err)
}

func TestCreateRejectsDuplicatePhone(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateCustomerRequest{Name: "A", Phone: ptr("9000000001")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateCustomerRequest{Name: "B", Phone: ptr("9000000001")})
	require.ErrorIs(t, err, ErrDuplicatePhone)
}

func TestSnapshotFreezesFields(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateCustomerRequest{
		Name:  "Patel Constructions",
		Phone: ptr("9823014567"),
		GSTIN: ptr("24AABCP5678G1Z2"),
	})
	require.NoError(t, err)

	snap := c.Snapshot()
	require.Equal(t, "Patel Constructions", snap.Name)
	require.Equal(t, "9823014567", snap.Phone)
	require.Equal(t, "24AABCP5678G1Z2", snap.GSTIN)
	require.Empty(t, snap.Address)
}

func TestUpdateBlankNameRejected(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateCustomerRequest{Name: "Sharma Traders"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, c.ID, UpdateCustomerRequest{Name: ptr(" ")})
	require.Error(t, err)
}
