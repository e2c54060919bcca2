// Package cart holds the in-memory line-item state for a shopping session.
// It performs no I/O; persistence is layered on top by the cart service.
package cart

// Item is one cart line: a unique product and the quantity selected.
// Price is the unit price captured when the product was first added.
type Item struct {
	ProductID string
	Name      string
	Price     float64
	Quantity  int
	ImageURL  string
}

// Subtotal is the line total, price times quantity.
func (it Item) Subtotal() float64 {
	return it.Price * float64(it.Quantity)
}

// Cart is an ordered collection of items, unique by product id.
type Cart struct {
	Items []Item
}

// Add merges qty into an existing line for the same product, or appends a
// new line. A quantity below 1 is clamped to 1.
func (c *Cart) Add(it Item, qty int) {
	if qty < 1 {
		qty = 1
	}
	for i := range c.Items {
		if c.Items[i].ProductID == it.ProductID {
			c.Items[i].Quantity += qty
			return
		}
	}
	it.Quantity = qty
	c.Items = append(c.Items, it)
}

// Remove drops the line for productID entirely, regardless of quantity.
// Removing an id that is not in the cart is a no-op.
func (c *Cart) Remove(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// Total returns the derived item total. It is always recomputed from the
// lines so it cannot drift from them.
func (c *Cart) Total() float64 {
	return ComputeTotal(c.Items)
}

// ComputeTotal sums price*quantity over items.
func ComputeTotal(items []Item) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}
