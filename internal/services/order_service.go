package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"suplementia/internal/cart"
	"suplementia/internal/events"
	applog "suplementia/internal/log"
	"suplementia/internal/repos"
	"suplementia/internal/shipping"
)

var (
	ErrCartEmpty          = errors.New("cart empty")
	ErrBadPaymentMethod   = errors.New("invalid payment method")
	ErrIncompleteShipping = errors.New("incomplete shipping selection")
	ErrBadShippingCost    = errors.New("shipping cost does not match any tier")
)

type OrderService struct {
	Carts  *repos.CartRepo
	Prods  *repos.ProductRepo
	Orders *repos.OrderRepo
	Events events.Publisher
}

func NewOrderService(carts *repos.CartRepo, prods *repos.ProductRepo, orders *repos.OrderRepo, pub events.Publisher) *OrderService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &OrderService{Carts: carts, Prods: prods, Orders: orders, Events: pub}
}

// PlaceInput carries the checkout form. Item prices are never part of it:
// the catalog is the source of truth for pricing.
type PlaceInput struct {
	PaymentMethod  string
	Shipping       shipping.Selection
	IdempotencyKey string
	CustomerName   string
	CustomerEmail  string
}

// Place converts the session cart into an order. On success the cart is
// cleared exactly once; on any failure it is left untouched so the user
// can retry. Replaying the same idempotency key returns the order already
// created for it instead of charging twice.
func (s *OrderService) Place(sessionID string, in PlaceInput) (string, float64, error) {
	if !validPayment(in.PaymentMethod) {
		return "", 0, ErrBadPaymentMethod
	}
	if !in.Shipping.Complete() {
		return "", 0, ErrIncompleteShipping
	}
	cost, ok := in.Shipping.Cost()
	if !ok {
		return "", 0, ErrIncompleteShipping
	}

	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return "", 0, err
	}
	items, err := s.Carts.Items(cartID)
	if err != nil {
		return "", 0, err
	}
	lines := make([]lineRef, 0, len(items))
	for _, it := range items {
		lines = append(lines, lineRef{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	return s.place(sessionID, cartID, lines, in.PaymentMethod,
		in.Shipping.Type, in.Shipping.FormatAddress(), cost,
		in.IdempotencyKey, in.CustomerName, in.CustomerEmail)
}

// APIItem is one line of the JSON order wire payload.
type APIItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// APIOrder is the JSON order wire payload. shipping_cost is accepted from
// the client for compatibility but must match a known tier; items are
// re-priced server-side regardless.
type APIOrder struct {
	PaymentMethod   string    `json:"payment_method"`
	ShippingAddress string    `json:"shipping_address"`
	ShippingType    string    `json:"shipping_type"`
	ShippingCost    float64   `json:"shipping_cost"`
	Items           []APIItem `json:"items"`
	IdempotencyKey  string    `json:"idempotency_key,omitempty"`
}

// PlaceAPI places an order from the JSON wire payload.
func (s *OrderService) PlaceAPI(sessionID string, in APIOrder) (string, float64, error) {
	if !validPayment(in.PaymentMethod) {
		return "", 0, ErrBadPaymentMethod
	}
	if in.ShippingAddress == "" {
		return "", 0, ErrIncompleteShipping
	}
	switch in.ShippingType {
	case shipping.TypePickup:
		if in.ShippingCost != shipping.PickupCost {
			return "", 0, ErrBadShippingCost
		}
	case shipping.TypeDelivery:
		switch in.ShippingCost {
		case shipping.LocalNearCost, shipping.LocalFarCost, shipping.RemoteCost:
		default:
			return "", 0, ErrBadShippingCost
		}
	default:
		return "", 0, ErrIncompleteShipping
	}

	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return "", 0, err
	}
	lines := make([]lineRef, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, lineRef{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	return s.place(sessionID, cartID, lines, in.PaymentMethod,
		in.ShippingType, in.ShippingAddress, in.ShippingCost,
		in.IdempotencyKey, "", "")
}

type lineRef struct {
	ProductID string
	Quantity  int
}

func (s *OrderService) place(sessionID, cartID string, lines []lineRef,
	payment, shippingType, shippingAddress string, shippingCost float64,
	idempotencyKey, name, email string) (string, float64, error) {

	if idempotencyKey != "" {
		existing, err := s.Orders.ByIdempotencyKey(idempotencyKey)
		if err != nil {
			return "", 0, err
		}
		if existing != "" {
			o, _, err := s.Orders.Get(existing)
			if err != nil {
				return "", 0, err
			}
			return existing, o.Total, nil
		}
	}

	if len(lines) == 0 {
		return "", 0, ErrCartEmpty
	}

	// Fold the lines through the engine first: repeated product ids merge
	// into one line, so the stock check below sees the true quantity and
	// order_items stays unique per product.
	var merged cart.Cart
	for _, l := range lines {
		merged.Add(cart.Item{ProductID: l.ProductID}, l.Quantity)
	}

	// Re-price from the catalog and pre-check stock before touching anything.
	items := make([]cart.Item, 0, len(merged.Items))
	for _, l := range merged.Items {
		p, err := s.Prods.Get(l.ProductID)
		if err != nil {
			if err == sql.ErrNoRows {
				return "", 0, fmt.Errorf("product %s no longer available", l.ProductID)
			}
			return "", 0, err
		}
		if p.Stock < l.Quantity {
			return "", 0, fmt.Errorf("insufficient stock for %s (need %d, have %d)", p.Name, l.Quantity, p.Stock)
		}
		items = append(items, cart.Item{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  l.Quantity,
		})
	}

	for _, it := range items {
		if err := s.Prods.DecrementStock(it.ProductID, it.Quantity); err != nil {
			return "", 0, err
		}
	}

	itemsTotal := cart.ComputeTotal(items)
	total := itemsTotal + shippingCost

	orderID := uuid.NewString()
	err := s.Orders.Create(repos.NewOrder{
		ID:              orderID,
		SessionID:       sessionID,
		PaymentMethod:   payment,
		ShippingType:    shippingType,
		ShippingAddress: shippingAddress,
		ShippingCost:    shippingCost,
		ItemsTotal:      itemsTotal,
		Total:           total,
		IdempotencyKey:  idempotencyKey,
		CustomerName:    name,
		CustomerEmail:   email,
	})
	if err != nil {
		return "", 0, err
	}
	for _, it := range items {
		if err := s.Orders.InsertItem(orderID, it.ProductID, it.Name, it.Quantity, it.Price); err != nil {
			return "", 0, err
		}
	}

	// Cart is cleared only after the order exists, and only here. A failed
	// clear is logged, not surfaced: the order already went through.
	if err := s.Carts.Clear(cartID); err != nil {
		applog.Error(nil, "cart.persist.fail", err, map[string]any{"cart": cartID})
	}

	if err := s.Events.PublishOrderPlaced(context.Background(), events.OrderPlaced{
		OrderID:         orderID,
		PaymentMethod:   payment,
		ShippingType:    shippingType,
		ShippingCost:    shippingCost,
		Total:           total,
		PlacedAt:        time.Now().UTC().Format(time.RFC3339),
		ItemCount:       len(items),
		ShippingAddress: shippingAddress,
	}); err != nil {
		applog.Error(nil, "order.event.publish.fail", err, map[string]any{"order_id": orderID})
	}

	return orderID, total, nil
}

func validPayment(m string) bool {
	return m == "transferencia" || m == "contra_entrega"
}
