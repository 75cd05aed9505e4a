// Package eligibility decides whether a requested quantity of a product may
// be added to a user's cart: the per-user limit and the product's enabling
// conditions must both admit the full quantity.
package eligibility

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	cartdomain "github.com/seatsmith/seatsmith/internal/cart/domain"
	catalogdomain "github.com/seatsmith/seatsmith/internal/catalog/domain"
	"github.com/seatsmith/seatsmith/internal/clock"
	conditiondomain "github.com/seatsmith/seatsmith/internal/condition/domain"
	"github.com/seatsmith/seatsmith/internal/condition/eval"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DenialReason string

const (
	ReasonLimitExceeded           DenialReason = "limit_exceeded"
	ReasonMandatoryConditionUnmet DenialReason = "mandatory_condition_unmet"
	ReasonNoOptionalConditionMet  DenialReason = "no_optional_condition_met"
)

// Decision is the outcome of an admission check. Denials are expected
// results, not errors; callers branch on Admitted.
type Decision struct {
	Admitted bool
	Reason   DenialReason
}

var ErrProductNotFound = errors.New("product_not_found")

type Service interface {
	// CanAdd checks whether quantity units of the product may be added to
	// the user's active cart right now. The whole quantity is admitted or
	// denied atomically. The db handle may be a transaction.
	CanAdd(ctx context.Context, db *gorm.DB, userID string, productID, quantity int64) (Decision, error)
}

type Params struct {
	fx.In

	Log           *zap.Logger
	Clock         clock.Clock
	CatalogRepo   catalogdomain.Repository
	ConditionRepo conditiondomain.Repository
	CartRepo      cartdomain.Repository
}

type controller struct {
	log           *zap.Logger
	clock         clock.Clock
	catalogRepo   catalogdomain.Repository
	conditionRepo conditiondomain.Repository
	cartRepo      cartdomain.Repository
}

func New(p Params) Service {
	return &controller{
		log:           p.Log.Named("eligibility"),
		clock:         p.Clock,
		catalogRepo:   p.CatalogRepo,
		conditionRepo: p.ConditionRepo,
		cartRepo:      p.CartRepo,
	}
}

func (c *controller) CanAdd(ctx context.Context, db *gorm.DB, userID string, productID, quantity int64) (Decision, error) {
	product, err := c.catalogRepo.FindProductByID(ctx, db, productID)
	if err != nil {
		return Decision{}, err
	}
	if product == nil {
		return Decision{}, ErrProductNotFound
	}

	hist, err := c.cartRepo.History(ctx, db, userID)
	if err != nil {
		return Decision{}, err
	}

	if !withinLimit(product, hist, quantity) {
		return Decision{Reason: ReasonLimitExceeded}, nil
	}

	decision, err := c.checkConditions(ctx, db, product, quantity)
	if err != nil {
		return Decision{}, err
	}
	if !decision.Admitted {
		c.log.Debug("add denied",
			zap.String("user_id", userID),
			zap.String("product_id", snowflake.ID(productID).String()),
			zap.Int64("quantity", quantity),
			zap.String("reason", string(decision.Reason)),
		)
	}
	return decision, nil
}

// withinLimit enforces the per-user cap across all of the user's carts,
// active and historical. A zero limit means unlimited.
func withinLimit(product *catalogdomain.Product, hist cartdomain.History, quantity int64) bool {
	if product.LimitPerUser <= 0 {
		return true
	}
	return hist.ProductQuantity(product.ID)+quantity <= product.LimitPerUser
}

// checkConditions applies the product's enabling conditions: every mandatory
// condition must hold, and if any conditions are attached at least one must
// hold overall. The first mandatory failure short-circuits. Ceilings count
// committed units across every user's carts; "first N" stock is shared.
func (c *controller) checkConditions(ctx context.Context, db *gorm.DB, product *catalogdomain.Product, quantity int64) (Decision, error) {
	conditions, err := c.conditionRepo.ForProduct(ctx, db, product.ID, product.CategoryID)
	if err != nil {
		return Decision{}, err
	}
	if len(conditions) == 0 {
		return Decision{Admitted: true}, nil
	}

	now := c.clock.Now()
	anyMet := false
	for _, cond := range conditions {
		referenced, err := c.referencedProducts(ctx, db, cond)
		if err != nil {
			return Decision{}, err
		}

		ids := make([]int64, 0, len(referenced))
		for id := range referenced {
			ids = append(ids, id)
		}
		committed, err := c.cartRepo.CeilingQuantity(ctx, db, ids)
		if err != nil {
			return Decision{}, err
		}

		met := eval.Satisfied(eval.Input{
			Condition:          cond.EnablingCondition,
			ReferencedProducts: referenced,
			Committed:          committed,
			ProductID:          product.ID,
			Quantity:           quantity,
			Now:                now,
		})

		if cond.Mandatory && !met {
			return Decision{Reason: ReasonMandatoryConditionUnmet}, nil
		}
		if met {
			anyMet = true
		}
	}

	if !anyMet {
		return Decision{Reason: ReasonNoOptionalConditionMet}, nil
	}
	return Decision{Admitted: true}, nil
}

func (c *controller) referencedProducts(ctx context.Context, db *gorm.DB, cond conditiondomain.Condition) (map[int64]bool, error) {
	set := make(map[int64]bool, len(cond.ProductIDs))
	for _, id := range cond.ProductIDs {
		set[id] = true
	}
	if len(cond.CategoryIDs) > 0 {
		expanded, err := c.catalogRepo.ProductIDsByCategory(ctx, db, cond.CategoryIDs)
		if err != nil {
			return nil, err
		}
		for _, id := range expanded {
			set[id] = true
		}
	}
	return set, nil
}

var Module = fx.Module("eligibility",
	fx.Provide(New),
)
