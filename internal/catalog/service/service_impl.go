package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/seatsmith/seatsmith/internal/catalog/domain"
	"github.com/seatsmith/seatsmith/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) CreateCategory(ctx context.Context, req domain.CreateCategoryRequest) (*domain.CategoryResponse, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, domain.ErrInvalidCode
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	c := &domain.Category{
		ID:        s.genID.Generate().Int64(),
		Code:      code,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateCategory(ctx, s.db, c); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateCode
		}
		return nil, err
	}
	resp := toCategoryResponse(c)
	return &resp, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.CategoryResponse, error) {
	items, err := s.repo.FindAllCategories(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.CategoryResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toCategoryResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.ProductResponse, error) {
	categoryID, err := snowflake.ParseString(strings.TrimSpace(req.CategoryID))
	if err != nil {
		return nil, domain.ErrInvalidCategory
	}
	category, err := s.repo.FindCategoryByID(ctx, s.db, categoryID.Int64())
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrInvalidCategory
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, domain.ErrInvalidCode
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.LimitPerUser < 0 || req.PriceCents < 0 {
		return nil, domain.ErrInvalidLimit
	}

	description := strings.TrimSpace(ptrToString(req.Description))
	var descriptionPtr *string
	if description != "" {
		descriptionPtr = &description
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now().UTC()
	p := &domain.Product{
		ID:           s.genID.Generate().Int64(),
		CategoryID:   categoryID.Int64(),
		Code:         code,
		Name:         name,
		Description:  descriptionPtr,
		PriceCents:   req.PriceCents,
		LimitPerUser: req.LimitPerUser,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateProduct(ctx, s.db, p); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateCode
		}
		return nil, err
	}
	resp := toProductResponse(p)
	return &resp, nil
}

func (s *Service) UpdateProduct(ctx context.Context, req domain.UpdateProductRequest) (*domain.ProductResponse, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindProductByID(ctx, s.db, productID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			item.Description = nil
		} else {
			item.Description = &description
		}
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			return nil, domain.ErrInvalidLimit
		}
		item.PriceCents = *req.PriceCents
	}
	if req.LimitPerUser != nil {
		if *req.LimitPerUser < 0 {
			return nil, domain.ErrInvalidLimit
		}
		item.LimitPerUser = *req.LimitPerUser
	}
	if req.Active != nil {
		item.Active = *req.Active
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateProduct(ctx, s.db, item); err != nil {
		return nil, err
	}

	resp := toProductResponse(item)
	return &resp, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.ProductResponse, error) {
	items, err := s.repo.FindAllProducts(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.ProductResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toProductResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.ProductResponse, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindProductByID(ctx, s.db, productID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := toProductResponse(item)
	return &resp, nil
}

func toCategoryResponse(c *domain.Category) domain.CategoryResponse {
	return domain.CategoryResponse{
		ID:        snowflake.ID(c.ID).String(),
		Code:      c.Code,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toProductResponse(p *domain.Product) domain.ProductResponse {
	return domain.ProductResponse{
		ID:           snowflake.ID(p.ID).String(),
		CategoryID:   snowflake.ID(p.CategoryID).String(),
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		PriceCents:   p.PriceCents,
		LimitPerUser: p.LimitPerUser,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func ptrToString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
