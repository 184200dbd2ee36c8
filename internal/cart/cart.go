// Package cart holds the storefront cart: a mapping from product id to
// quantity, persisted after every mutation and broadcast to whichever
// display surfaces (header badge, drawer) are subscribed.
package cart

import "github.com/ducktaek/kitaekshoppingmall/internal/catalog"

// Items maps product id -> quantity. No entry ever carries a quantity
// at or below zero; setting one removes the entry instead.
type Items map[string]int

func (m Items) clone() Items {
	out := make(Items, len(m))
	for id, qty := range m {
		out[id] = qty
	}
	return out
}

// normalize drops entries that violate the positive-quantity invariant,
// which can only come in from storage written by something else.
func normalize(m Items) Items {
	for id, qty := range m {
		if qty <= 0 {
			delete(m, id)
		}
	}
	return m
}

// Line is one cart row joined with its catalog listing.
type Line struct {
	Product   catalog.Product `json:"product"`
	Qty       int             `json:"qty"`
	LineTotal int64           `json:"line_total"`
}

// Summary is what a display surface renders. Totals are derived on every
// read and never stored.
type Summary struct {
	Lines      []Line `json:"items"`
	TotalCount int    `json:"total_count"`
	TotalPrice int64  `json:"total_price"`
}

// Summarize joins cart items with the catalog in catalog order.
// TotalCount sums every quantity; TotalPrice only counts ids still in
// the catalog, so a stale entry can never be charged for.
func Summarize(items Items, products []catalog.Product) Summary {
	s := Summary{Lines: make([]Line, 0, len(items))}

	for _, qty := range items {
		s.TotalCount += qty
	}

	for _, p := range products {
		qty, ok := items[p.ID]
		if !ok {
			continue
		}
		lineTotal := int64(qty) * p.Price
		s.Lines = append(s.Lines, Line{Product: p, Qty: qty, LineTotal: lineTotal})
		s.TotalPrice += lineTotal
	}

	return s
}
