package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/cartstate/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// productPayload is the JSON shape served at /products/{id}.
type productPayload struct {
	ID    int64       `json:"id"`
	Title string      `json:"title"`
	Price json.Number `json:"price"`
	Image string      `json:"image"`
}

// stockPayload is the JSON shape served at /stock/{id}.
type stockPayload struct {
	ID     int64 `json:"id"`
	Amount *int  `json:"amount"`
}

func mapProductToDomain(requestedID int64, p productPayload, unit currency.Unit) (domain.Product, error) {
	if p.ID != requestedID {
		return domain.Product{}, fmt.Errorf("%w: id[%d] does not match requested[%d]", ErrMalformedResponse, p.ID, requestedID)
	}
	if p.Title == "" {
		return domain.Product{}, fmt.Errorf("%w: title is empty", ErrMalformedResponse)
	}
	if p.Price == "" {
		return domain.Product{}, fmt.Errorf("%w: price is missing", ErrMalformedResponse)
	}

	price, err := decimal.NewFromString(p.Price.String())
	if err != nil {
		return domain.Product{}, fmt.Errorf("%w: price[%s]: %w", ErrMalformedResponse, p.Price, err)
	}
	if price.IsNegative() {
		return domain.Product{}, fmt.Errorf("%w: price[%s] is negative", ErrMalformedResponse, p.Price)
	}

	return domain.Product{
		ID:    p.ID,
		Title: p.Title,
		Price: domain.Money{Amount: price, Currency: unit},
		Image: p.Image,
	}, nil
}

func mapStockToDomain(requestedID int64, s stockPayload) (domain.Stock, error) {
	if s.Amount == nil {
		return domain.Stock{}, fmt.Errorf("%w: amount is missing", ErrMalformedResponse)
	}
	if *s.Amount < 0 {
		return domain.Stock{}, fmt.Errorf("%w: amount[%d] is negative", ErrMalformedResponse, *s.Amount)
	}

	// json-server style fixtures omit the id on stock rows, so only reject a mismatch.
	if s.ID != 0 && s.ID != requestedID {
		return domain.Stock{}, fmt.Errorf("%w: id[%d] does not match requested[%d]", ErrMalformedResponse, s.ID, requestedID)
	}

	return domain.Stock{ProductID: requestedID, Amount: *s.Amount}, nil
}
