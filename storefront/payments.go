/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package storefront

import (
	"context"
	"net/url"

	"github.com/MartinBugar/martyx-industries-fe-sub001/apiclient"
)

const paymentsRequestType = "payments"

// CartItem is a product in the cart.
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Cart is the content of the checkout.
type Cart struct {
	Items    []CartItem `json:"items"`
	Currency string     `json:"currency"`
}

// PayPalOrder is an order created at PayPal for the cart.
type PayPalOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// PayPalCapture is the result of capturing the approved order.
type PayPalCapture struct {
	OrderID   string `json:"orderId"`
	CaptureID string `json:"captureId"`
	Status    string `json:"status"`
}

// Payments runs the PayPal checkout through the backend. Calls are never retried.
type Payments struct {
	api *apiclient.Client
}

// NewPayments creates a new Payments service.
func NewPayments(api *apiclient.Client) *Payments {
	return &Payments{api: api}
}

// CreatePayPalOrder creates a PayPal order for the cart.
func (p *Payments) CreatePayPalOrder(ctx context.Context, cart Cart) (*PayPalOrder, error) {
	var order PayPalOrder
	if err := p.api.Post(ctx, "/payments/paypal/orders", cart, &order,
		apiclient.WithRetry(false), apiclient.WithRequestType(paymentsRequestType)); err != nil {
		return nil, err
	}
	return &order, nil
}

// CapturePayPalOrder captures the order approved by the buyer.
func (p *Payments) CapturePayPalOrder(ctx context.Context, orderID string) (*PayPalCapture, error) {
	var capture PayPalCapture
	if err := p.api.Post(ctx, "/payments/paypal/orders/"+url.PathEscape(orderID)+"/capture", nil, &capture,
		apiclient.WithRetry(false), apiclient.WithRequestType(paymentsRequestType)); err != nil {
		return nil, err
	}
	return &capture, nil
}
