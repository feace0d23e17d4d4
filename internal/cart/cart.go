package cart

// Line is one product's entry in a session cart. Name, price and image
// are snapshotted from the catalog at first add.
type Line struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int    `json:"price_cents"`
	Quantity   int    `json:"quantity"`
	ImageURL   string `json:"image_url,omitempty"`
}

// Cart maps product id -> line. One line per distinct product.
type Cart map[string]Line

// TotalCents sums unit price times quantity over all lines.
func (c Cart) TotalCents() int {
	total := 0
	for _, l := range c {
		total += l.PriceCents * l.Quantity
	}
	return total
}
