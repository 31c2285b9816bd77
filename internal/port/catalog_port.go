package port

import (
	"context"

	"github.com/nikolayk812/cartstate/internal/domain"
)

type Catalog interface {
	GetStock(ctx context.Context, productID int64) (domain.Stock, error)
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
}
