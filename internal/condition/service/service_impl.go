package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/seatsmith/seatsmith/internal/condition/domain"
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
		log:   p.Log.Named("condition.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, domain.ErrInvalidDescription
	}

	kind := req.Kind
	if kind == "" {
		kind = domain.KindUnconditional
	}
	switch kind {
	case domain.KindUnconditional, domain.KindTimeOrStock:
	default:
		return nil, domain.ErrInvalidKind
	}

	if kind == domain.KindTimeOrStock {
		if req.Limit <= 0 {
			return nil, domain.ErrInvalidLimit
		}
		if req.StartAt != nil && req.EndAt != nil && req.EndAt.Before(*req.StartAt) {
			return nil, domain.ErrInvalidWindow
		}
	}

	productIDs, err := parseIDs(req.ProductIDs)
	if err != nil {
		return nil, domain.ErrInvalidReference
	}
	categoryIDs, err := parseIDs(req.CategoryIDs)
	if err != nil {
		return nil, domain.ErrInvalidReference
	}
	if len(productIDs) == 0 && len(categoryIDs) == 0 {
		return nil, domain.ErrInvalidReference
	}

	now := time.Now().UTC()
	cond := &domain.EnablingCondition{
		ID:          s.genID.Generate().Int64(),
		Description: description,
		Kind:        kind,
		Mandatory:   req.Mandatory,
		Limit:       req.Limit,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, cond, productIDs, categoryIDs)
	})
	if err != nil {
		return nil, err
	}

	resp := toResponse(domain.Condition{
		EnablingCondition: *cond,
		ProductIDs:        productIDs,
		CategoryIDs:       categoryIDs,
	})
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, toResponse(item))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	condID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	item, err := s.repo.FindByID(ctx, s.db, condID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	resp := toResponse(*item)
	return &resp, nil
}

func toResponse(c domain.Condition) domain.Response {
	return domain.Response{
		ID:          snowflake.ID(c.ID).String(),
		Description: c.Description,
		Kind:        c.Kind,
		Mandatory:   c.Mandatory,
		Limit:       c.Limit,
		StartAt:     c.StartAt,
		EndAt:       c.EndAt,
		ProductIDs:  renderIDs(c.ProductIDs),
		CategoryIDs: renderIDs(c.CategoryIDs),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
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
