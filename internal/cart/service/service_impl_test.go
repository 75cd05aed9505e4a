package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/seatsmith/seatsmith/internal/cart/domain"
	cartrepo "github.com/seatsmith/seatsmith/internal/cart/repository"
	catalogdomain "github.com/seatsmith/seatsmith/internal/catalog/domain"
	catalogrepo "github.com/seatsmith/seatsmith/internal/catalog/repository"
	"github.com/seatsmith/seatsmith/internal/clock"
	conditiondomain "github.com/seatsmith/seatsmith/internal/condition/domain"
	conditionrepo "github.com/seatsmith/seatsmith/internal/condition/repository"
	discountdomain "github.com/seatsmith/seatsmith/internal/discount/domain"
	discountrepo "github.com/seatsmith/seatsmith/internal/discount/repository"
	"github.com/seatsmith/seatsmith/internal/eligibility"
	obsmetrics "github.com/seatsmith/seatsmith/internal/observability/metrics"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type noopLock struct{}

func (noopLock) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}

type busyLock struct{}

func (busyLock) Acquire(context.Context, string) (func(), error) {
	return nil, domain.ErrUserBusy
}

type fixture struct {
	svc  domain.Service
	db   *gorm.DB
	node *snowflake.Node

	prod1 *catalogdomain.Product
	prod2 *catalogdomain.Product
}

func setup(t *testing.T) *fixture {
	return setupWithLock(t, noopLock{})
}

func setupWithLock(t *testing.T, lock domain.UserLock) *fixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	assert.NoError(t, err)

	err = conn.AutoMigrate(
		&catalogdomain.Category{},
		&catalogdomain.Product{},
		&domain.Cart{},
		&domain.CartItem{},
		&domain.DiscountItem{},
		&conditiondomain.EnablingCondition{},
		&conditiondomain.ConditionProduct{},
		&conditiondomain.ConditionCategory{},
		&discountdomain.Discount{},
		&discountdomain.DiscountEnablingProduct{},
		&discountdomain.DiscountEnablingCategory{},
		&discountdomain.DiscountClause{},
	)
	assert.NoError(t, err)

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)
	log := zap.NewNop()

	elig := eligibility.New(eligibility.Params{
		Log:           log,
		Clock:         clock.NewFakeClock(time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)),
		CatalogRepo:   catalogrepo.Provide(),
		ConditionRepo: conditionrepo.Provide(),
		CartRepo:      cartrepo.Provide(),
	})

	svc := New(Params{
		DB:           conn,
		Log:          log,
		GenID:        node,
		Repo:         cartrepo.Provide(),
		Lock:         lock,
		Eligibility:  elig,
		DiscountRepo: discountrepo.Provide(),
		CatalogRepo:  catalogrepo.Provide(),
		Metrics:      obsmetrics.New(),
	})

	f := &fixture{svc: svc, db: conn, node: node}
	category := catalogdomain.Category{ID: node.Generate().Int64(), Code: "tickets", Name: "Tickets"}
	assert.NoError(t, conn.Create(&category).Error)
	f.prod1 = f.createProduct(t, category.ID, "prod-1", 0)
	f.prod2 = f.createProduct(t, category.ID, "prod-2", 0)
	return f
}

func (f *fixture) createProduct(t *testing.T, categoryID int64, code string, limitPerUser int64) *catalogdomain.Product {
	t.Helper()
	product := catalogdomain.Product{
		ID:           f.node.Generate().Int64(),
		CategoryID:   categoryID,
		Code:         code,
		Name:         code,
		LimitPerUser: limitPerUser,
		Active:       true,
	}
	assert.NoError(t, f.db.Create(&product).Error)
	return &product
}

// createDiscount sets up a rule enabled by owning prod1, discounting prod2.
func (f *fixture) createDiscount(t *testing.T, percentage float64, cap int64) *discountdomain.Discount {
	t.Helper()
	discount := &discountdomain.Discount{
		ID:          f.node.Generate().Int64(),
		Description: "prod2 discount for prod1 owners",
	}
	clause := discountdomain.DiscountClause{
		ID:         f.node.Generate().Int64(),
		ProductID:  &f.prod2.ID,
		Percentage: percentage,
		Quantity:   cap,
	}
	err := discountrepo.Provide().Create(
		context.Background(), f.db, discount,
		[]int64{f.prod1.ID}, nil,
		[]discountdomain.DiscountClause{clause},
	)
	assert.NoError(t, err)
	return discount
}

func (f *fixture) add(t *testing.T, userID string, product *catalogdomain.Product, qty int64) *domain.AddResult {
	t.Helper()
	result, err := f.svc.AddToCart(context.Background(), domain.AddRequest{
		UserID:    userID,
		ProductID: snowflake.ID(product.ID).String(),
		Quantity:  qty,
	})
	assert.NoError(t, err)
	return result
}

func (f *fixture) pay(t *testing.T, result *domain.AddResult) {
	t.Helper()
	_, err := f.svc.SetStatus(context.Background(), domain.SetStatusRequest{
		CartID: result.Cart.ID,
		Status: domain.StatusPaid,
	})
	assert.NoError(t, err)
}

func TestAddToCartAppliesDiscount(t *testing.T) {
	f := setup(t)
	f.createDiscount(t, 100, 2)

	result := f.add(t, "u1", f.prod1, 1)
	assert.True(t, result.Admitted)
	assert.Empty(t, result.Cart.DiscountItems)

	result = f.add(t, "u1", f.prod2, 1)
	assert.True(t, result.Admitted)
	assert.Len(t, result.Cart.DiscountItems, 1)
	assert.Equal(t, int64(1), result.Cart.DiscountItems[0].Quantity)
	assert.Equal(t, float64(100), result.Cart.DiscountItems[0].Percentage)
}

func TestAddToCartDiscountCapped(t *testing.T) {
	f := setup(t)
	f.createDiscount(t, 100, 2)

	f.add(t, "u1", f.prod1, 1)
	result := f.add(t, "u1", f.prod2, 3)

	assert.True(t, result.Admitted)
	assert.Len(t, result.Cart.DiscountItems, 1)
	assert.Equal(t, int64(2), result.Cart.DiscountItems[0].Quantity)
}

func TestAddToCartStacksBestFirst(t *testing.T) {
	f := setup(t)
	full := f.createDiscount(t, 100, 2)
	half := f.createDiscount(t, 50, 2)

	f.add(t, "u1", f.prod1, 1)
	result := f.add(t, "u1", f.prod2, 3)

	assert.True(t, result.Admitted)
	assert.Len(t, result.Cart.DiscountItems, 2)

	byDiscount := map[string]domain.DiscountItemView{}
	for _, item := range result.Cart.DiscountItems {
		byDiscount[item.DiscountID] = item
	}
	assert.Equal(t, int64(2), byDiscount[snowflake.ID(full.ID).String()].Quantity)
	assert.Equal(t, int64(1), byDiscount[snowflake.ID(half.ID).String()].Quantity)
}

func TestQuotaSpansSequentialCarts(t *testing.T) {
	f := setup(t)
	f.createDiscount(t, 100, 2)

	first := f.add(t, "u1", f.prod1, 1)
	f.pay(t, first)

	second := f.add(t, "u1", f.prod2, 1)
	assert.Len(t, second.Cart.DiscountItems, 1)
	assert.Equal(t, int64(1), second.Cart.DiscountItems[0].Quantity)
	f.pay(t, second)

	// One unit of quota remains from the cap of two.
	third := f.add(t, "u1", f.prod2, 2)
	assert.Len(t, third.Cart.DiscountItems, 1)
	assert.Equal(t, int64(1), third.Cart.DiscountItems[0].Quantity)
}

func TestRuleCreatedAfterPurchaseIgnoresUnrecordedHistory(t *testing.T) {
	f := setup(t)

	// Closed cart predates the rule; no discount rows were recorded for it.
	first := f.add(t, "u1", f.prod1, 1)
	f.add(t, "u1", f.prod2, 2)
	f.pay(t, first)

	f.createDiscount(t, 100, 2)

	result := f.add(t, "u1", f.prod2, 2)
	assert.Len(t, result.Cart.DiscountItems, 1)
	assert.Equal(t, int64(2), result.Cart.DiscountItems[0].Quantity)
}

func TestAddToCartDeniedOverLimit(t *testing.T) {
	f := setup(t)
	limited := f.createProduct(t, f.prod1.CategoryID, "limited", 1)

	result := f.add(t, "u1", limited, 2)
	assert.False(t, result.Admitted)
	assert.Equal(t, string(eligibility.ReasonLimitExceeded), result.Reason)
	assert.Nil(t, result.Cart)

	// The denial wrote nothing.
	_, err := f.svc.ActiveCart(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddToCartDenialIsAtomic(t *testing.T) {
	f := setup(t)
	limited := f.createProduct(t, f.prod1.CategoryID, "limited", 2)

	result := f.add(t, "u1", limited, 1)
	assert.True(t, result.Admitted)

	// Two more would exceed the cap; the whole quantity is refused, not
	// trimmed to fit.
	result = f.add(t, "u1", limited, 2)
	assert.False(t, result.Admitted)
	assert.Equal(t, string(eligibility.ReasonLimitExceeded), result.Reason)

	view, err := f.svc.ActiveCart(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Len(t, view.Items, 1)
	assert.Equal(t, int64(1), view.Items[0].Quantity)
}

func TestAddToCartMergesLineItems(t *testing.T) {
	f := setup(t)

	f.add(t, "u1", f.prod2, 1)
	result := f.add(t, "u1", f.prod2, 2)

	assert.Len(t, result.Cart.Items, 1)
	assert.Equal(t, int64(3), result.Cart.Items[0].Quantity)
}

func TestReconcileIdempotentAcrossRecomputes(t *testing.T) {
	f := setup(t)
	f.createDiscount(t, 100, 3)

	f.add(t, "u1", f.prod1, 1)
	first := f.add(t, "u1", f.prod2, 2)

	// An unrelated mutation triggers another full recompute.
	second := f.add(t, "u1", f.prod1, 1)

	assert.Equal(t, len(first.Cart.DiscountItems), len(second.Cart.DiscountItems))
	assert.Equal(t, first.Cart.DiscountItems[0].Quantity, second.Cart.DiscountItems[0].Quantity)
	assert.Equal(t, first.Cart.DiscountItems[0].DiscountID, second.Cart.DiscountItems[0].DiscountID)

	var count int64
	assert.NoError(t, f.db.Model(&domain.DiscountItem{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSetStatusClosesCart(t *testing.T) {
	f := setup(t)

	result := f.add(t, "u1", f.prod1, 1)
	view, err := f.svc.SetStatus(context.Background(), domain.SetStatusRequest{
		CartID: result.Cart.ID,
		Status: domain.StatusPaid,
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, view.Status)
	assert.False(t, view.Active)

	_, err = f.svc.ActiveCart(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Closed carts stay closed.
	_, err = f.svc.SetStatus(context.Background(), domain.SetStatusRequest{
		CartID: result.Cart.ID,
		Status: domain.StatusCancelled,
	})
	assert.ErrorIs(t, err, domain.ErrCartNotActive)
}

func TestSetStatusRejectsPending(t *testing.T) {
	f := setup(t)
	result := f.add(t, "u1", f.prod1, 1)

	_, err := f.svc.SetStatus(context.Background(), domain.SetStatusRequest{
		CartID: result.Cart.ID,
		Status: domain.StatusPending,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestAddToCartUserBusy(t *testing.T) {
	f := setupWithLock(t, busyLock{})

	_, err := f.svc.AddToCart(context.Background(), domain.AddRequest{
		UserID:    "u1",
		ProductID: snowflake.ID(f.prod1.ID).String(),
		Quantity:  1,
	})
	assert.ErrorIs(t, err, domain.ErrUserBusy)
}

func TestAddToCartValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.AddToCart(ctx, domain.AddRequest{UserID: "", ProductID: "1", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidUser)

	_, err = f.svc.AddToCart(ctx, domain.AddRequest{UserID: "u1", ProductID: "nope", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)

	_, err = f.svc.AddToCart(ctx, domain.AddRequest{
		UserID:    "u1",
		ProductID: snowflake.ID(f.prod1.ID).String(),
		Quantity:  0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}
