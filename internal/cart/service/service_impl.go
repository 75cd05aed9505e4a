package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/seatsmith/seatsmith/internal/cart/domain"
	catalogdomain "github.com/seatsmith/seatsmith/internal/catalog/domain"
	discountdomain "github.com/seatsmith/seatsmith/internal/discount/domain"
	"github.com/seatsmith/seatsmith/internal/eligibility"
	obsmetrics "github.com/seatsmith/seatsmith/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Repo         domain.Repository
	Lock         domain.UserLock
	Eligibility  eligibility.Service
	DiscountRepo discountdomain.Repository
	CatalogRepo  catalogdomain.Repository
	Metrics      *obsmetrics.Metrics
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	lock         domain.UserLock
	eligibility  eligibility.Service
	discountRepo discountdomain.Repository
	catalogRepo  catalogdomain.Repository
	metrics      *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("cart.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		lock:         p.Lock,
		eligibility:  p.Eligibility,
		discountRepo: p.DiscountRepo,
		catalogRepo:  p.CatalogRepo,
		metrics:      p.Metrics,
	}
}

func (s *Service) AddToCart(ctx context.Context, req domain.AddRequest) (*domain.AddResult, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}
	productID, err := snowflake.ParseString(strings.TrimSpace(req.ProductID))
	if err != nil {
		return nil, domain.ErrInvalidProduct
	}
	if req.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	release, err := s.lock.Acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	var result domain.AddResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		decision, err := s.eligibility.CanAdd(ctx, tx, userID, productID.Int64(), req.Quantity)
		if err != nil {
			if err == eligibility.ErrProductNotFound {
				return domain.ErrInvalidProduct
			}
			return err
		}
		if !decision.Admitted {
			result = domain.AddResult{Reason: string(decision.Reason)}
			return nil
		}

		cart, err := s.findOrCreateActiveCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := s.upsertItem(ctx, tx, cart.ID, productID.Int64(), req.Quantity); err != nil {
			return err
		}
		if err := s.reconcile(ctx, tx, cart); err != nil {
			return err
		}

		view, err := s.loadView(ctx, tx, cart)
		if err != nil {
			return err
		}
		result = domain.AddResult{Admitted: true, Cart: view}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Admitted {
		s.metrics.IncAdmission(obsmetrics.OutcomeAdmitted)
	} else {
		s.metrics.IncAdmission(result.Reason)
		s.log.Info("add denied",
			zap.String("user_id", userID),
			zap.String("product_id", productID.String()),
			zap.Int64("quantity", req.Quantity),
			zap.String("reason", result.Reason),
		)
	}
	return &result, nil
}

func (s *Service) ActiveCart(ctx context.Context, userID string) (*domain.CartView, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}
	cart, err := s.repo.FindActiveCart(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.ErrNotFound
	}
	return s.loadView(ctx, s.db, cart)
}

// SetStatus closes a pending cart as paid or cancelled. Closed carts become
// immutable history; their line items keep counting toward per-user limits,
// and cancelled carts release their units from stock ceilings.
func (s *Service) SetStatus(ctx context.Context, req domain.SetStatusRequest) (*domain.CartView, error) {
	cartID, err := snowflake.ParseString(strings.TrimSpace(req.CartID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	switch req.Status {
	case domain.StatusPaid, domain.StatusCancelled:
	default:
		return nil, domain.ErrInvalidStatus
	}

	cart, err := s.repo.FindCartByID(ctx, s.db, cartID.Int64())
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.ErrNotFound
	}

	release, err := s.lock.Acquire(ctx, cart.UserID)
	if err != nil {
		return nil, err
	}
	defer release()

	var view *domain.CartView
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.repo.FindCartByID(ctx, tx, cartID.Int64())
		if err != nil {
			return err
		}
		if cart == nil {
			return domain.ErrNotFound
		}
		if cart.Status != domain.StatusPending {
			return domain.ErrCartNotActive
		}

		cart.Status = req.Status
		cart.Active = false
		cart.UpdatedAt = time.Now().UTC()
		if err := s.repo.UpdateCart(ctx, tx, cart); err != nil {
			return err
		}
		view, err = s.loadView(ctx, tx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *Service) findOrCreateActiveCart(ctx context.Context, tx *gorm.DB, userID string) (*domain.Cart, error) {
	cart, err := s.repo.FindActiveCart(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	now := time.Now().UTC()
	cart = &domain.Cart{
		ID:        s.genID.Generate().Int64(),
		UserID:    userID,
		Active:    true,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateCart(ctx, tx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Service) upsertItem(ctx context.Context, tx *gorm.DB, cartID, productID, quantity int64) error {
	item, err := s.repo.FindItem(ctx, tx, cartID, productID)
	if err != nil {
		return err
	}
	if item != nil {
		return s.repo.UpdateItemQuantity(ctx, tx, item.ID, item.Quantity+quantity)
	}

	now := time.Now().UTC()
	return s.repo.CreateItem(ctx, tx, &domain.CartItem{
		ID:        s.genID.Generate().Int64(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// reconcile replaces the cart's discount items with a from-scratch
// recomputation. Runs inside the caller's transaction, so a failure leaves
// the previous rows intact.
func (s *Service) reconcile(ctx context.Context, tx *gorm.DB, cart *domain.Cart) error {
	items, err := s.repo.FindItems(ctx, tx, cart.ID)
	if err != nil {
		return err
	}
	hist, err := s.repo.History(ctx, tx, cart.UserID)
	if err != nil {
		return err
	}
	rules, err := s.discountRepo.FindAll(ctx, tx)
	if err != nil {
		return err
	}
	categoryByProduct, err := s.catalogRepo.CategoryByProduct(ctx, tx)
	if err != nil {
		return err
	}

	rows, err := discountdomain.Reconcile(discountdomain.ReconcileInput{
		Cart:              *cart,
		Items:             items,
		History:           hist,
		Rules:             rules,
		CategoryByProduct: categoryByProduct,
	})
	if err != nil {
		s.metrics.IncReconcile(obsmetrics.ResultError)
		return err
	}

	now := time.Now().UTC()
	var granted int64
	for i := range rows {
		rows[i].ID = s.genID.Generate().Int64()
		rows[i].CreatedAt = now
		granted += rows[i].Quantity
	}
	if err := s.repo.ReplaceDiscountItems(ctx, tx, cart.ID, rows); err != nil {
		s.metrics.IncReconcile(obsmetrics.ResultError)
		return err
	}

	s.metrics.IncReconcile(obsmetrics.ResultOK)
	s.metrics.AddDiscountUnits(granted)
	return nil
}

func (s *Service) loadView(ctx context.Context, db *gorm.DB, cart *domain.Cart) (*domain.CartView, error) {
	items, err := s.repo.FindItems(ctx, db, cart.ID)
	if err != nil {
		return nil, err
	}
	discountItems, err := s.repo.FindDiscountItems(ctx, db, cart.ID)
	if err != nil {
		return nil, err
	}

	view := &domain.CartView{
		ID:            snowflake.ID(cart.ID).String(),
		UserID:        cart.UserID,
		Active:        cart.Active,
		Status:        cart.Status,
		Items:         make([]domain.ItemView, 0, len(items)),
		DiscountItems: make([]domain.DiscountItemView, 0, len(discountItems)),
		CreatedAt:     cart.CreatedAt,
		UpdatedAt:     cart.UpdatedAt,
	}
	for _, item := range items {
		view.Items = append(view.Items, domain.ItemView{
			ProductID: snowflake.ID(item.ProductID).String(),
			Quantity:  item.Quantity,
		})
	}
	for _, item := range discountItems {
		view.DiscountItems = append(view.DiscountItems, domain.DiscountItemView{
			DiscountID: snowflake.ID(item.DiscountID).String(),
			ProductID:  snowflake.ID(item.ProductID).String(),
			Quantity:   item.Quantity,
			Percentage: item.Percentage,
		})
	}
	return view, nil
}
