package domain

import (
	"errors"
	"sort"

	cartdomain "github.com/seatsmith/seatsmith/internal/cart/domain"
)

// ErrInconsistentQuota means cross-cart accounting found more discounted
// units recorded than a clause's cap allows. The stored data is corrupt;
// never clamp, always fail.
var ErrInconsistentQuota = errors.New("inconsistent_quota")

// ReconcileInput is the full read-only state Reconcile depends on. History
// includes the active cart's own rows; consumption accounting excludes them
// by cart ID since they are about to be replaced.
type ReconcileInput struct {
	Cart              cartdomain.Cart
	Items             []cartdomain.CartItem
	History           cartdomain.History
	Rules             []Rule
	CategoryByProduct map[int64]int64
}

// Enabled reports whether a rule is active for the history's user: at least
// one enabling product, or a product of an enabling category, appears in any
// of the user's carts. A rule with no enabling references is always active.
// Enablement is a pure function of recorded history, so rules created after
// a purchase still count that purchase.
func Enabled(rule Rule, hist cartdomain.History, categoryByProduct map[int64]int64) bool {
	if len(rule.ProductIDs) == 0 && len(rule.CategoryIDs) == 0 {
		return true
	}
	return hist.OwnsAny(expandRefs(rule.ProductIDs, rule.CategoryIDs, categoryByProduct))
}

// Reconcile recomputes the cart's discount items from scratch. It returns
// rows with DiscountID, ProductID, Quantity and Percentage set; the caller
// assigns row IDs and persists them atomically in place of the cart's
// previous rows. Same input, same output: persistence stays idempotent.
func Reconcile(in ReconcileInput) ([]cartdomain.DiscountItem, error) {
	type ranked struct {
		rule   Rule
		clause DiscountClause
	}
	var clauses []ranked
	for _, rule := range in.Rules {
		if !Enabled(rule, in.History, in.CategoryByProduct) {
			continue
		}
		for _, clause := range rule.Clauses {
			clauses = append(clauses, ranked{rule: rule, clause: clause})
		}
	}

	// Global stacking order: best percentage first across all rules, so a
	// 100% clause consumes units before a 50% one sees them. Snowflake IDs
	// break ties in creation order.
	sort.SliceStable(clauses, func(i, j int) bool {
		a, b := clauses[i], clauses[j]
		if a.clause.Percentage != b.clause.Percentage {
			return a.clause.Percentage > b.clause.Percentage
		}
		if a.rule.ID != b.rule.ID {
			return a.rule.ID < b.rule.ID
		}
		return a.clause.ID < b.clause.ID
	})

	quantity := make(map[int64]int64, len(in.Items))
	productOrder := make([]int64, 0, len(in.Items))
	for _, item := range in.Items {
		if _, seen := quantity[item.ProductID]; !seen {
			productOrder = append(productOrder, item.ProductID)
		}
		quantity[item.ProductID] += item.Quantity
	}

	type grantKey struct {
		discountID int64
		productID  int64
	}
	grants := make(map[grantKey]*cartdomain.DiscountItem)
	var grantOrder []grantKey
	allocated := make(map[int64]int64)

	for _, rc := range clauses {
		targets := clauseTargets(rc.clause, in.CategoryByProduct)
		if len(targets) == 0 {
			continue
		}

		consumed := in.History.DiscountConsumed(rc.rule.ID, targets, in.Cart.ID)
		for key, g := range grants {
			if key.discountID == rc.rule.ID && targets[key.productID] {
				consumed += g.Quantity
			}
		}
		remaining := rc.clause.Quantity - consumed
		if remaining < 0 {
			return nil, ErrInconsistentQuota
		}
		if remaining == 0 {
			continue
		}

		for _, productID := range productOrder {
			if remaining == 0 {
				break
			}
			if !targets[productID] {
				continue
			}
			eligible := quantity[productID] - allocated[productID]
			if eligible <= 0 {
				continue
			}
			grant := eligible
			if remaining < grant {
				grant = remaining
			}

			key := grantKey{discountID: rc.rule.ID, productID: productID}
			row, ok := grants[key]
			if !ok {
				row = &cartdomain.DiscountItem{
					CartID:     in.Cart.ID,
					DiscountID: rc.rule.ID,
					ProductID:  productID,
					Percentage: rc.clause.Percentage,
				}
				grants[key] = row
				grantOrder = append(grantOrder, key)
			}
			row.Quantity += grant
			allocated[productID] += grant
			remaining -= grant
		}
	}

	out := make([]cartdomain.DiscountItem, 0, len(grantOrder))
	for _, key := range grantOrder {
		out = append(out, *grants[key])
	}
	return out, nil
}

func expandRefs(productIDs, categoryIDs []int64, categoryByProduct map[int64]int64) map[int64]bool {
	set := make(map[int64]bool, len(productIDs))
	for _, id := range productIDs {
		set[id] = true
	}
	if len(categoryIDs) > 0 {
		want := make(map[int64]bool, len(categoryIDs))
		for _, id := range categoryIDs {
			want[id] = true
		}
		for productID, categoryID := range categoryByProduct {
			if want[categoryID] {
				set[productID] = true
			}
		}
	}
	return set
}

func clauseTargets(clause DiscountClause, categoryByProduct map[int64]int64) map[int64]bool {
	set := make(map[int64]bool)
	if clause.ProductID != nil {
		set[*clause.ProductID] = true
	}
	if clause.CategoryID != nil {
		for productID, categoryID := range categoryByProduct {
			if categoryID == *clause.CategoryID {
				set[productID] = true
			}
		}
	}
	return set
}
