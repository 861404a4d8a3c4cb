package models

type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal is price times quantity for this line.
func (c CartItem) LineTotal() float64 {
	return c.Product.Price * float64(c.Quantity)
}

// CartTotal sums every line of the cart.
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}
