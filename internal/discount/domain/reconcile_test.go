package domain

import (
	"testing"

	cartdomain "github.com/seatsmith/seatsmith/internal/cart/domain"
	"github.com/stretchr/testify/assert"
)

const (
	prod1 int64 = 201
	prod2 int64 = 202
	prod3 int64 = 203

	cat1 int64 = 301
)

var testCategories = map[int64]int64{
	prod1: cat1,
	prod2: cat1,
	prod3: cat1,
}

func intPtr(v int64) *int64 { return &v }

// ownershipRule grants clauses on prod2 once the user owns prod1.
func ownershipRule(id int64, percentage float64, cap int64) Rule {
	return Rule{
		Discount:   Discount{ID: id, Description: "test rule"},
		ProductIDs: []int64{prod1},
		Clauses: []DiscountClause{
			{ID: id*10 + 1, DiscountID: id, ProductID: intPtr(prod2), Percentage: percentage, Quantity: cap},
		},
	}
}

func activeCart(id int64, items map[int64]int64) (cartdomain.Cart, []cartdomain.CartItem) {
	cart := cartdomain.Cart{ID: id, UserID: "u1", Active: true, Status: cartdomain.StatusPending}
	rows := make([]cartdomain.CartItem, 0, len(items))
	var itemID int64 = id * 100
	for _, pid := range []int64{prod1, prod2, prod3} {
		qty, ok := items[pid]
		if !ok {
			continue
		}
		itemID++
		rows = append(rows, cartdomain.CartItem{ID: itemID, CartID: id, ProductID: pid, Quantity: qty})
	}
	return cart, rows
}

func selfHistory(cart cartdomain.Cart, items []cartdomain.CartItem) cartdomain.History {
	return cartdomain.History{
		Carts: []cartdomain.Cart{cart},
		Items: items,
	}
}

func TestReconcileGrantsWithinCap(t *testing.T) {
	rule := ownershipRule(1, 100, 2)
	cart, items := activeCart(10, map[int64]int64{prod1: 1, prod2: 1})

	rows, err := Reconcile(ReconcileInput{
		Cart:              cart,
		Items:             items,
		History:           selfHistory(cart, items),
		Rules:             []Rule{rule},
		CategoryByProduct: testCategories,
	})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, prod2, rows[0].ProductID)
	assert.Equal(t, int64(1), rows[0].Quantity)
	assert.Equal(t, float64(100), rows[0].Percentage)
	assert.Equal(t, cart.ID, rows[0].CartID)
}

func TestReconcileCapLimitsGrant(t *testing.T) {
	rule := ownershipRule(1, 100, 2)
	cart, items := activeCart(10, map[int64]int64{prod1: 1, prod2: 3})

	rows, err := Reconcile(ReconcileInput{
		Cart:              cart,
		Items:             items,
		History:           selfHistory(cart, items),
		Rules:             []Rule{rule},
		CategoryByProduct: testCategories,
	})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].Quantity)
}

func TestReconcileStacksBestPercentageFirst(t *testing.T) {
	full := ownershipRule(1, 100, 2)
	half := ownershipRule(2, 50, 2)
	cart, items := activeCart(10, map[int64]int64{prod1: 1, prod2: 3})

	// Listed worst-first to prove ordering comes from percentages, not input.
	rows, err := Reconcile(ReconcileInput{
		Cart:              cart,
		Items:             items,
		History:           selfHistory(cart, items),
		Rules:             []Rule{half, full},
		CategoryByProduct: testCategories,
	})
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	assert.Equal(t, full.ID, rows[0].DiscountID)
	assert.Equal(t, int64(2), rows[0].Quantity)
	assert.Equal(t, float64(100), rows[0].Percentage)

	assert.Equal(t, half.ID, rows[1].DiscountID)
	assert.Equal(t, int64(1), rows[1].Quantity)
	assert.Equal(t, float64(50), rows[1].Percentage)
}

func TestReconcileSkipsDisabledRule(t *testing.T) {
	rule := ownershipRule(1, 100, 2)
	cart, items := activeCart(10, map[int64]int64{prod2: 2})

	rows, err := Reconcile(ReconcileInput{
		Cart:              cart,
		Items:             items,
		History:           selfHistory(cart, items),
		Rules:             []Rule{rule},
		CategoryByProduct: testCategories,
	})
	assert.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReconcileHistoricalOwnershipEnables(t *testing.T) {
	rule := ownershipRule(1, 100, 2)
	cart, items := activeCart(10, map[int64]int64{prod2: 1})

	hist := selfHistory(cart, items)
	hist.Carts = append(hist.Carts, cartdomain.Cart{ID: 9, UserID: "u1", Status: cartdomain.StatusPaid})
	hist.Items = append(hist.Items, cartdomain.CartItem{ID: 901, CartID: 9, ProductID: prod1, Quantity: 1})

	rows, err := Reconcile(ReconcileInput{
		Cart:              cart,
		Items:             items,
		History:           hist,
		Rules:             []Rule{rule},
		CategoryByProduct: testCategories,
	})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].Quantity)
}

func TestReconcileCrossCartQuota(t *testing.T) {
	rule := ownershipRule(1, 100, 2)
	cart, items := activeCart(10, map[int64]int64{prod2: 2})

	// A closed cart already consumed one unit of the cap.
	hist := selfHistory(cart, items)
	hist.Carts = append(hist.Carts,
		cartdomain.Cart{ID: 8, UserID: "u1", Status: cartdomain.StatusPaid},
		cartdomain.Cart{ID: 9, UserID: "u1", Status: cartdomain.StatusPaid},
	)
	hist.Items = append(hist.Items,
		cartdomain.CartItem{ID: 801, CartID: 8, ProductID: prod1, Quantity: 1},
		cartdomain.CartItem{ID: 901, CartID: 9, ProductID: prod2, Quantity: 1},
	)
	hist.DiscountItems = append(hist.DiscountItems,
		cartdomain.DiscountItem{ID: 902, CartID: 9, DiscountID: rule.ID, ProductID: prod2, Quantity: 1, Percentage: 100},
	)

	rows, err := Reconcile(ReconcileInput{
		Cart:              cart,
		Items:             items,
		History:           hist,
		Rules:             []Rule{rule},
		CategoryByProduct: testCategories,
	})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].Quantity)
}

func TestReconcileUnrecordedHistoryDoesNotConsumeQuota(t *testing.T) {
	// The enabling purchase predates the rule, so no discount rows exist for
	// it; the new cart gets the full cap.
	rule := ownershipRule(1, 100, 2)
	cart, items := activeCart(10, map[int64]int64{prod2: 2})

	hist := selfHistory(cart, items)
	hist.Carts = append(hist.Carts, cartdomain.Cart{ID: 9, UserID: "u1", Status: cartdomain.StatusPaid})
	hist.Items = append(hist.Items,
		cartdomain.CartItem{ID: 901, CartID: 9, ProductID: prod1, Quantity: 1},
		cartdomain.CartItem{ID: 902, CartID: 9, ProductID: prod2, Quantity: 2},
	)

	rows, err := Reconcile(ReconcileInput{
		Cart:              cart,
		Items:             items,
		History:           hist,
		Rules:             []Rule{rule},
		CategoryByProduct: testCategories,
	})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].Quantity)
}

func TestReconcileCollapsesSameRuleAndProduct(t *testing.T) {
	rule := Rule{
		Discount:   Discount{ID: 1},
		ProductIDs: []int64{prod1},
		Clauses: []DiscountClause{
			{ID: 11, DiscountID: 1, ProductID: intPtr(prod2), Percentage: 100, Quantity: 1},
			{ID: 12, DiscountID: 1, ProductID: intPtr(prod2), Percentage: 100, Quantity: 5},
		},
	}
	cart, items := activeCart(10, map[int64]int64{prod1: 1, prod2: 3})

	rows, err := Reconcile(ReconcileInput{
		Cart:              cart,
		Items:             items,
		History:           selfHistory(cart, items),
		Rules:             []Rule{rule},
		CategoryByProduct: testCategories,
	})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(3), rows[0].Quantity)
}

func TestReconcileCategoryClauseSpansProducts(t *testing.T) {
	rule := Rule{
		Discount:   Discount{ID: 1},
		ProductIDs: []int64{prod1},
		Clauses: []DiscountClause{
			{ID: 11, DiscountID: 1, CategoryID: intPtr(cat1), Percentage: 50, Quantity: 5},
		},
	}
	cart, items := activeCart(10, map[int64]int64{prod1: 1, prod2: 1, prod3: 2})

	rows, err := Reconcile(ReconcileInput{
		Cart:              cart,
		Items:             items,
		History:           selfHistory(cart, items),
		Rules:             []Rule{rule},
		CategoryByProduct: testCategories,
	})
	assert.NoError(t, err)
	// One row per (rule, product): prod1, prod2 and prod3 are all in cat1.
	assert.Len(t, rows, 3)
	var total int64
	for _, row := range rows {
		assert.Equal(t, rule.ID, row.DiscountID)
		assert.Equal(t, float64(50), row.Percentage)
		total += row.Quantity
	}
	assert.Equal(t, int64(4), total)
}

func TestReconcileAllocatedUnitsNotRediscounted(t *testing.T) {
	// The 100% clause takes one unit; the 50% clause may only discount the
	// remaining units, never the one already allocated.
	full := ownershipRule(1, 100, 1)
	half := ownershipRule(2, 50, 10)
	cart, items := activeCart(10, map[int64]int64{prod1: 1, prod2: 2})

	rows, err := Reconcile(ReconcileInput{
		Cart:              cart,
		Items:             items,
		History:           selfHistory(cart, items),
		Rules:             []Rule{full, half},
		CategoryByProduct: testCategories,
	})
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].Quantity)
	assert.Equal(t, int64(1), rows[1].Quantity)
}

func TestReconcileIdempotent(t *testing.T) {
	full := ownershipRule(1, 100, 2)
	half := ownershipRule(2, 50, 2)
	cart, items := activeCart(10, map[int64]int64{prod1: 1, prod2: 3})

	in := ReconcileInput{
		Cart:              cart,
		Items:             items,
		History:           selfHistory(cart, items),
		Rules:             []Rule{half, full},
		CategoryByProduct: testCategories,
	}

	first, err := Reconcile(in)
	assert.NoError(t, err)
	second, err := Reconcile(in)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReconcileOverconsumedQuotaIsFatal(t *testing.T) {
	rule := ownershipRule(1, 100, 2)
	cart, items := activeCart(10, map[int64]int64{prod2: 1})

	hist := selfHistory(cart, items)
	hist.Carts = append(hist.Carts, cartdomain.Cart{ID: 9, UserID: "u1", Status: cartdomain.StatusPaid})
	hist.Items = append(hist.Items,
		cartdomain.CartItem{ID: 901, CartID: 9, ProductID: prod1, Quantity: 1},
		cartdomain.CartItem{ID: 902, CartID: 9, ProductID: prod2, Quantity: 3},
	)
	hist.DiscountItems = append(hist.DiscountItems,
		cartdomain.DiscountItem{ID: 903, CartID: 9, DiscountID: rule.ID, ProductID: prod2, Quantity: 3, Percentage: 100},
	)

	_, err := Reconcile(ReconcileInput{
		Cart:              cart,
		Items:             items,
		History:           hist,
		Rules:             []Rule{rule},
		CategoryByProduct: testCategories,
	})
	assert.ErrorIs(t, err, ErrInconsistentQuota)
}

func TestEnabledWithCategoryReference(t *testing.T) {
	rule := Rule{
		Discount:    Discount{ID: 1},
		CategoryIDs: []int64{cat1},
	}
	hist := cartdomain.History{
		Carts: []cartdomain.Cart{{ID: 1, UserID: "u1", Status: cartdomain.StatusPaid}},
		Items: []cartdomain.CartItem{{ID: 11, CartID: 1, ProductID: prod3, Quantity: 1}},
	}
	assert.True(t, Enabled(rule, hist, testCategories))

	assert.False(t, Enabled(rule, cartdomain.History{}, testCategories))
}

func TestEnabledWithoutReferencesIsUnconditional(t *testing.T) {
	rule := Rule{Discount: Discount{ID: 1}}
	assert.True(t, Enabled(rule, cartdomain.History{}, testCategories))
}
