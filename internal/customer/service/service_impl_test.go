package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upeonet/mtandao/internal/customer/domain"
	"github.com/upeonet/mtandao/internal/customer/repository"
	plandomain "github.com/upeonet/mtandao/internal/plan/domain"
	planrepository "github.com/upeonet/mtandao/internal/plan/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupCustomerService(t *testing.T, dsn string) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&domain.Customer{}, &plandomain.Plan{})
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     repository.Provide(),
		PlanRepo: planrepository.Provide(),
	})

	return svc, db, node
}

func seedPlan(t *testing.T, db *gorm.DB, node *snowflake.Node, active bool) plandomain.Plan {
	t.Helper()
	plan := plandomain.Plan{
		ID:           node.Generate(),
		Name:         "Home 10" + node.Generate().String(),
		SpeedMbps:    10,
		Price:        decimal.NewFromInt(2500),
		BillingCycle: plandomain.BillingCycleMonthly,
		Active:       active,
	}
	require.NoError(t, db.Create(&plan).Error)
	return plan
}

func TestCreateCustomer(t *testing.T) {
	svc, _, node := setupCustomerService(t, "file:customer_create?mode=memory&cache=shared")
	ctx := context.Background()

	customer, err := svc.Create(ctx, domain.CreateCustomerRequest{
		Name:  "Jane Wanjiku",
		Email: "jane@example.com",
		Phone: "0712 345 678",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, customer.Status)
	assert.Equal(t, "0712345678", customer.Phone)
	assert.True(t, customer.Balance.IsZero())

	_, err = svc.Create(ctx, domain.CreateCustomerRequest{
		Email: "no-name@example.com",
		Phone: "0712345679",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateCustomerRequest{
		Name:  "Bad Phone",
		Email: "bad@example.com",
		Phone: "12",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPhone)

	_, err = svc.Create(ctx, domain.CreateCustomerRequest{
		Name:   "Unknown Plan",
		Email:  "plan@example.com",
		Phone:  "0712345680",
		PlanID: node.Generate().String(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)
}

func TestCreateCustomer_InactivePlanRejected(t *testing.T) {
	svc, db, node := setupCustomerService(t, "file:customer_plan?mode=memory&cache=shared")
	ctx := context.Background()

	inactive := seedPlan(t, db, node, false)
	active := seedPlan(t, db, node, true)

	_, err := svc.Create(ctx, domain.CreateCustomerRequest{
		Name:   "Jane",
		Email:  "jane@example.com",
		Phone:  "0712345678",
		PlanID: inactive.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)

	customer, err := svc.Create(ctx, domain.CreateCustomerRequest{
		Name:   "Jane",
		Email:  "jane@example.com",
		Phone:  "0712345678",
		PlanID: active.ID.String(),
	})
	require.NoError(t, err)
	require.NotNil(t, customer.PlanID)
	assert.Equal(t, active.ID, *customer.PlanID)
}

func TestGetByPhone(t *testing.T) {
	svc, _, _ := setupCustomerService(t, "file:customer_phone?mode=memory&cache=shared")
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateCustomerRequest{
		Name:  "Peter Otieno",
		Email: "peter@example.com",
		Phone: "+254 712 000 001",
	})
	require.NoError(t, err)
	assert.Equal(t, "+254712000001", created.Phone)

	found, err := svc.GetByPhone(ctx, "+254712000001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetByPhone(ctx, "0799999999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateCustomer(t *testing.T) {
	svc, _, _ := setupCustomerService(t, "file:customer_update?mode=memory&cache=shared")
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateCustomerRequest{
		Name:  "Grace Njeri",
		Email: "grace@example.com",
		Phone: "0733444555",
	})
	require.NoError(t, err)

	status := domain.StatusSuspended
	updated, err := svc.Update(ctx, domain.UpdateCustomerRequest{
		ID:     created.ID.String(),
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuspended, updated.Status)

	bogus := "on_holiday"
	_, err = svc.Update(ctx, domain.UpdateCustomerRequest{
		ID:     created.ID.String(),
		Status: &bogus,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.Update(ctx, domain.UpdateCustomerRequest{
		ID: "1234567890",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCountByStatus(t *testing.T) {
	svc, _, _ := setupCustomerService(t, "file:customer_counts?mode=memory&cache=shared")
	ctx := context.Background()

	phones := []string{"0712000001", "0712000002", "0712000003"}
	for _, phone := range phones {
		_, err := svc.Create(ctx, domain.CreateCustomerRequest{
			Name:  "Customer " + phone,
			Email: phone + "@example.com",
			Phone: phone,
		})
		require.NoError(t, err)
	}

	counts, err := svc.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[domain.StatusActive])
}
