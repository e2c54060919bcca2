package services

import (
	"suplementia/internal/cart"
	applog "suplementia/internal/log"
	"suplementia/internal/repos"
)

// CartService composes the pure cart engine with per-session persistence.
// The engine is authoritative within a request; writes to storage are
// best-effort so a failed write never loses the mutation for the current
// response.
type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

type CartView struct {
	Items []cart.Item
	Total float64
}

func (s *CartService) load(sessionID string) (string, *cart.Cart, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return "", nil, err
	}
	items, err := s.Carts.Items(cartID)
	if err != nil {
		return "", nil, err
	}
	return cartID, &cart.Cart{Items: items}, nil
}

func (s *CartService) Add(sessionID, productID string, qty int) error {
	cartID, c, err := s.load(sessionID)
	if err != nil {
		return err
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		return err
	}
	c.Add(cart.Item{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		ImageURL:  p.ImageURL(),
	}, qty)
	for _, it := range c.Items {
		if it.ProductID == productID {
			if err := s.Carts.SaveLine(cartID, it); err != nil {
				applog.Error(nil, "cart.persist.fail", err, map[string]any{"cart": cartID})
			}
			break
		}
	}
	return nil
}

func (s *CartService) Remove(sessionID, productID string) error {
	cartID, c, err := s.load(sessionID)
	if err != nil {
		return err
	}
	c.Remove(productID)
	if err := s.Carts.RemoveLine(cartID, productID); err != nil {
		applog.Error(nil, "cart.persist.fail", err, map[string]any{"cart": cartID})
	}
	return nil
}

func (s *CartService) Clear(sessionID string) error {
	cartID, c, err := s.load(sessionID)
	if err != nil {
		return err
	}
	c.Clear()
	if err := s.Carts.Clear(cartID); err != nil {
		applog.Error(nil, "cart.persist.fail", err, map[string]any{"cart": cartID})
	}
	return nil
}

func (s *CartService) View(sessionID string) (CartView, error) {
	_, c, err := s.load(sessionID)
	if err != nil {
		return CartView{}, err
	}
	return CartView{Items: c.Items, Total: c.Total()}, nil
}
