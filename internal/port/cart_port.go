package port

import (
	"context"

	"github.com/nikolayk812/cartstate/internal/domain"
)

type UpdateProductAmount struct {
	ProductID int64
	Amount    int
}

// CartStore is the surface UI code consumes.
type CartStore interface {
	Cart() domain.Cart
	AddProduct(ctx context.Context, productID int64) error
	RemoveProduct(ctx context.Context, productID int64) error
	UpdateProductAmount(ctx context.Context, req UpdateProductAmount) error
}
