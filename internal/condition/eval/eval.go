// Package eval decides whether an enabling condition lets a user add a
// quantity of a product right now. Dispatch is keyed by condition kind; an
// unregistered kind falls back to always-satisfied, matching the
// unconditional default.
package eval

import (
	"time"

	"github.com/seatsmith/seatsmith/internal/condition/domain"
)

// Input carries everything an evaluator may inspect. ReferencedProducts is
// the condition's product set with category references already expanded to
// member product IDs. Committed is the unit count of those products already
// held across all users' non-cancelled carts; ceilings are shared stock, so
// the caller counts globally. Evaluators stay pure over both.
type Input struct {
	Condition          domain.EnablingCondition
	ReferencedProducts map[int64]bool
	Committed          int64
	ProductID          int64
	Quantity           int64
	Now                time.Time
}

type Func func(Input) bool

var registry = map[domain.Kind]Func{}

// Register installs the evaluator for a condition kind. Call sites of
// Satisfied never change when a kind is added.
func Register(kind domain.Kind, fn Func) {
	registry[kind] = fn
}

// Satisfied evaluates one condition instance for one add request.
func Satisfied(in Input) bool {
	if fn, ok := registry[in.Condition.Kind]; ok {
		return fn(in)
	}
	return evalUnconditional(in)
}

func init() {
	Register(domain.KindUnconditional, evalUnconditional)
	Register(domain.KindTimeOrStock, evalTimeOrStock)
}

func evalUnconditional(Input) bool {
	return true
}

func evalTimeOrStock(in Input) bool {
	// A ceiling only constrains the products it references.
	if !in.ReferencedProducts[in.ProductID] {
		return true
	}

	cond := in.Condition
	if cond.StartAt != nil && in.Now.Before(*cond.StartAt) {
		return false
	}
	if cond.EndAt != nil && in.Now.After(*cond.EndAt) {
		return false
	}

	return in.Committed+in.Quantity <= cond.Limit
}
