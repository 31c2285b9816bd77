package cart_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/cartstate/internal/domain"
	"github.com/nikolayk812/cartstate/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var errCatalogDown = errors.New("catalog is down")

type fakeCatalog struct {
	mu sync.Mutex

	products map[int64]domain.Product
	stock    map[int64]int

	stockErr   error
	productErr error
	latency    time.Duration

	stockCalls   int
	productCalls int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: make(map[int64]domain.Product),
		stock:    make(map[int64]int),
	}
}

// put registers a product with the given stock and returns it.
func (f *fakeCatalog) put(stock int) domain.Product {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := randomProduct()
	for _, taken := f.products[p.ID]; taken; _, taken = f.products[p.ID] {
		p.ID++
	}

	f.products[p.ID] = p
	f.stock[p.ID] = stock

	return p
}

func (f *fakeCatalog) setStock(productID int64, amount int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stock[productID] = amount
}

func (f *fakeCatalog) GetStock(ctx context.Context, productID int64) (domain.Stock, error) {
	f.mu.Lock()
	f.stockCalls++
	amount, ok := f.stock[productID]
	err, latency := f.stockErr, f.latency
	f.mu.Unlock()

	if latency > 0 {
		select {
		case <-ctx.Done():
			return domain.Stock{}, ctx.Err()
		case <-time.After(latency):
		}
	}

	if err != nil {
		return domain.Stock{}, err
	}
	if !ok {
		return domain.Stock{}, fmt.Errorf("stock[%d] not found", productID)
	}

	return domain.Stock{ProductID: productID, Amount: amount}, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, productID int64) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.productCalls++
	if f.productErr != nil {
		return domain.Product{}, f.productErr
	}

	p, ok := f.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("product[%d] not found", productID)
	}

	return p, nil
}

func (f *fakeCatalog) calls() (stock, product int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.stockCalls, f.productCalls
}

// failingStorage reads from an inner storage but rejects every write.
type failingStorage struct {
	inner port.Storage
}

func (s failingStorage) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, key)
}

func (s failingStorage) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func randomProduct() domain.Product {
	return domain.Product{
		ID:    int64(gofakeit.Number(1, 1_000_000)),
		Title: gofakeit.ProductName(),
		Price: domain.Money{
			Amount:   decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2),
			Currency: currency.BRL,
		},
		Image: gofakeit.URL(),
	}
}
