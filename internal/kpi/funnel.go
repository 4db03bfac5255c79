// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package kpi

import "github.com/tomtom215/storelens/internal/models"

// Funnel event names as recorded by GA4 e-commerce tagging.
const (
	EventSessionStart  = "session_start"
	EventAddToCart     = "add_to_cart"
	EventBeginCheckout = "begin_checkout"
	EventPurchase      = "purchase"
)

// ExtractFunnel maps event counts onto the four funnel stages. Unknown
// events are ignored and missing stages stay 0. A repeated event name keeps
// the last count.
func ExtractFunnel(rows []models.EventCount) models.Funnel {
	var f models.Funnel
	for _, r := range rows {
		switch r.Name {
		case EventSessionStart:
			f.Session = r.Count
		case EventAddToCart:
			f.Cart = r.Count
		case EventBeginCheckout:
			f.Checkout = r.Count
		case EventPurchase:
			f.Purchase = r.Count
		}
	}
	return f
}

// NewAbandonment derives abandonment rates from cart funnel counts.
//
// Cart abandonment is (add-checkout)/add*100 clamped to [0,100]. Checkout
// abandonment is (checkout-purchase)/checkout*100 and is not clamped, so it
// is negative when purchases exceed checkouts.
func NewAbandonment(add, checkout, purchase int64) models.Abandonment {
	a := models.Abandonment{AddToCart: add, BeginCheckout: checkout, Purchase: purchase}
	if add > 0 {
		a.CartRate = clamp(float64(add-checkout)/float64(add)*100, 0, 100)
	}
	if checkout > 0 {
		a.CheckoutRate = float64(checkout-purchase) / float64(checkout) * 100
	}
	return a
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
