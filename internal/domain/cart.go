package domain

import (
	"fmt"
	"slices"
)

type Cart struct {
	Products []Product
}

// Find returns the entry for productID and its position in the cart.
func (c Cart) Find(productID int64) (Product, int, bool) {
	for i, p := range c.Products {
		if p.ID == productID {
			return p, i, true
		}
	}

	return Product{}, -1, false
}

func (c Cart) Clone() Cart {
	return Cart{Products: slices.Clone(c.Products)}
}

func (c Cart) Len() int {
	return len(c.Products)
}

// Validate checks that entries are unique by id and hold a positive amount.
func (c Cart) Validate() error {
	seen := make(map[int64]struct{}, len(c.Products))

	for _, p := range c.Products {
		if p.Amount < 1 {
			return fmt.Errorf("product[%d] amount[%d] is not positive", p.ID, p.Amount)
		}

		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("product[%d] is duplicated", p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	return nil
}
