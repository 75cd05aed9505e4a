package domain

// History is a read-only snapshot of one user's carts, line items and
// discount items. Eligibility checks and the discount reconciler are pure
// functions over it, so cross-cart accounting never races with the view it
// was computed from.
type History struct {
	Carts         []Cart
	Items         []CartItem
	DiscountItems []DiscountItem
}

// ProductQuantity is the user's total quantity of a product across all carts,
// any status. Per-user limits count everything ever admitted.
func (h History) ProductQuantity(productID int64) int64 {
	var total int64
	for _, item := range h.Items {
		if item.ProductID == productID {
			total += item.Quantity
		}
	}
	return total
}

// DiscountConsumed sums discounted quantity for a (discount, target products)
// pair, excluding the given cart. Used for cross-cart quota accounting.
func (h History) DiscountConsumed(discountID int64, productIDs map[int64]bool, excludeCartID int64) int64 {
	var total int64
	for _, item := range h.DiscountItems {
		if item.CartID == excludeCartID {
			continue
		}
		if item.DiscountID != discountID || !productIDs[item.ProductID] {
			continue
		}
		total += item.Quantity
	}
	return total
}

// OwnsAny reports whether any of the given products appears in the history
// with quantity at least one, in a cart of any status.
func (h History) OwnsAny(productIDs map[int64]bool) bool {
	for _, item := range h.Items {
		if productIDs[item.ProductID] && item.Quantity > 0 {
			return true
		}
	}
	return false
}
