package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/seatsmith/seatsmith/internal/catalog/domain"
	"github.com/seatsmith/seatsmith/internal/catalog/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T) domain.Service {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, conn.AutoMigrate(&domain.Category{}, &domain.Product{}))

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	return New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func createCategory(t *testing.T, svc domain.Service) *domain.CategoryResponse {
	t.Helper()
	category, err := svc.CreateCategory(context.Background(), domain.CreateCategoryRequest{
		Code: "tickets",
		Name: "Tickets",
	})
	assert.NoError(t, err)
	return category
}

func TestCreateCategoryValidation(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, domain.CreateCategoryRequest{Code: " ", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidCode)

	_, err = svc.CreateCategory(ctx, domain.CreateCategoryRequest{Code: "x", Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestCreateCategoryDuplicateCode(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, domain.CreateCategoryRequest{Code: "tickets", Name: "Tickets"})
	assert.NoError(t, err)

	_, err = svc.CreateCategory(ctx, domain.CreateCategoryRequest{Code: "tickets", Name: "Other"})
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)
}

func TestCreateProductRequiresCategory(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, domain.CreateProductRequest{
		CategoryID: "bogus!",
		Code:       "p1",
		Name:       "P1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	node, _ := snowflake.NewNode(2)
	_, err = svc.CreateProduct(ctx, domain.CreateProductRequest{
		CategoryID: node.Generate().String(),
		Code:       "p1",
		Name:       "P1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestProductRoundTrip(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	category := createCategory(t, svc)

	created, err := svc.CreateProduct(ctx, domain.CreateProductRequest{
		CategoryID:   category.ID,
		Code:         "ticket-full",
		Name:         "Full Ticket",
		PriceCents:   49900,
		LimitPerUser: 1,
	})
	assert.NoError(t, err)
	assert.True(t, created.Active)
	assert.Equal(t, int64(1), created.LimitPerUser)

	got, err := svc.GetProduct(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.Code, got.Code)

	newLimit := int64(3)
	updated, err := svc.UpdateProduct(ctx, domain.UpdateProductRequest{
		ID:           created.ID,
		LimitPerUser: &newLimit,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), updated.LimitPerUser)

	all, err := svc.ListProducts(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdateProductValidation(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	category := createCategory(t, svc)

	created, err := svc.CreateProduct(ctx, domain.CreateProductRequest{
		CategoryID: category.ID,
		Code:       "p1",
		Name:       "P1",
	})
	assert.NoError(t, err)

	empty := ""
	_, err = svc.UpdateProduct(ctx, domain.UpdateProductRequest{ID: created.ID, Name: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	negative := int64(-1)
	_, err = svc.UpdateProduct(ctx, domain.UpdateProductRequest{ID: created.ID, LimitPerUser: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidLimit)

	node, _ := snowflake.NewNode(2)
	_, err = svc.UpdateProduct(ctx, domain.UpdateProductRequest{ID: node.Generate().String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
