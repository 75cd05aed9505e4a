package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	cartdomain "github.com/seatsmith/seatsmith/internal/cart/domain"
	catalogdomain "github.com/seatsmith/seatsmith/internal/catalog/domain"
	"github.com/seatsmith/seatsmith/internal/discount/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	CartRepo    cartdomain.Repository
	CatalogRepo catalogdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	cartRepo    cartdomain.Repository
	catalogRepo catalogdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("discount.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		cartRepo:    p.CartRepo,
		catalogRepo: p.CatalogRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, domain.ErrInvalidDescription
	}
	if len(req.Clauses) == 0 {
		return nil, domain.ErrInvalidClause
	}

	productIDs, err := parseIDs(req.ProductIDs)
	if err != nil {
		return nil, domain.ErrInvalidReference
	}
	categoryIDs, err := parseIDs(req.CategoryIDs)
	if err != nil {
		return nil, domain.ErrInvalidReference
	}

	clauses := make([]domain.DiscountClause, 0, len(req.Clauses))
	for _, c := range req.Clauses {
		if (c.ProductID == nil) == (c.CategoryID == nil) {
			return nil, domain.ErrInvalidClause
		}
		if c.Percentage <= 0 || c.Percentage > 100 {
			return nil, domain.ErrInvalidPercentage
		}
		if c.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		clause := domain.DiscountClause{
			ID:         s.genID.Generate().Int64(),
			Percentage: c.Percentage,
			Quantity:   c.Quantity,
		}
		if c.ProductID != nil {
			id, err := snowflake.ParseString(strings.TrimSpace(*c.ProductID))
			if err != nil {
				return nil, domain.ErrInvalidReference
			}
			v := id.Int64()
			clause.ProductID = &v
		}
		if c.CategoryID != nil {
			id, err := snowflake.ParseString(strings.TrimSpace(*c.CategoryID))
			if err != nil {
				return nil, domain.ErrInvalidReference
			}
			v := id.Int64()
			clause.CategoryID = &v
		}
		clauses = append(clauses, clause)
	}

	now := time.Now().UTC()
	discount := &domain.Discount{
		ID:          s.genID.Generate().Int64(),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, discount, productIDs, categoryIDs, clauses)
	})
	if err != nil {
		return nil, err
	}

	resp := toResponse(domain.Rule{
		Discount:    *discount,
		ProductIDs:  productIDs,
		CategoryIDs: categoryIDs,
		Clauses:     clauses,
	})
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	rules, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.Response, 0, len(rules))
	for _, rule := range rules {
		resp = append(resp, toResponse(rule))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	discountID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	rule, err := s.repo.FindByID(ctx, s.db, discountID.Int64())
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, domain.ErrNotFound
	}
	resp := toResponse(*rule)
	return &resp, nil
}

func (s *Service) Preview(ctx context.Context, cartID string) ([]domain.PreviewItem, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(cartID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	cart, err := s.cartRepo.FindCartByID(ctx, s.db, id.Int64())
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.ErrNotFound
	}

	items, err := s.cartRepo.FindItems(ctx, s.db, cart.ID)
	if err != nil {
		return nil, err
	}
	hist, err := s.cartRepo.History(ctx, s.db, cart.UserID)
	if err != nil {
		return nil, err
	}
	rules, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	categoryByProduct, err := s.catalogRepo.CategoryByProduct(ctx, s.db)
	if err != nil {
		return nil, err
	}

	rows, err := domain.Reconcile(domain.ReconcileInput{
		Cart:              *cart,
		Items:             items,
		History:           hist,
		Rules:             rules,
		CategoryByProduct: categoryByProduct,
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.PreviewItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.PreviewItem{
			DiscountID: snowflake.ID(row.DiscountID).String(),
			ProductID:  snowflake.ID(row.ProductID).String(),
			Quantity:   row.Quantity,
			Percentage: row.Percentage,
		})
	}
	return out, nil
}

func toResponse(rule domain.Rule) domain.Response {
	clauses := make([]domain.ClauseResponse, 0, len(rule.Clauses))
	for _, c := range rule.Clauses {
		clause := domain.ClauseResponse{
			ID:         snowflake.ID(c.ID).String(),
			Percentage: c.Percentage,
			Quantity:   c.Quantity,
		}
		if c.ProductID != nil {
			v := snowflake.ID(*c.ProductID).String()
			clause.ProductID = &v
		}
		if c.CategoryID != nil {
			v := snowflake.ID(*c.CategoryID).String()
			clause.CategoryID = &v
		}
		clauses = append(clauses, clause)
	}
	return domain.Response{
		ID:          snowflake.ID(rule.ID).String(),
		Description: rule.Description,
		ProductIDs:  renderIDs(rule.ProductIDs),
		CategoryIDs: renderIDs(rule.CategoryIDs),
		Clauses:     clauses,
		CreatedAt:   rule.CreatedAt,
		UpdatedAt:   rule.UpdatedAt,
	}
}

func parseIDs(raw []string) ([]int64, error) {
	out := make([]int64, 0, len(raw))
	for _, s := range raw {
		id, err := snowflake.ParseString(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		out = append(out, id.Int64())
	}
	return out, nil
}

func renderIDs(ids []int64) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, snowflake.ID(id).String())
	}
	return out
}
