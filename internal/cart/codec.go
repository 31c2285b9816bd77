package cart

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nikolayk812/cartstate/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// productRecord is the persisted shape of a cart entry.
type productRecord struct {
	ID       int64       `json:"id"`
	Title    string      `json:"title"`
	Price    json.Number `json:"price"`
	Currency string      `json:"currency,omitempty"`
	Image    string      `json:"image"`
	Amount   int         `json:"amount"`
}

func encodeCart(c domain.Cart) (string, error) {
	records := make([]productRecord, 0, len(c.Products))
	for _, p := range c.Products {
		records = append(records, mapProductToRecord(p))
	}

	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	return string(data), nil
}

func decodeCart(raw string) (domain.Cart, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return domain.Cart{}, nil
	}

	var records []productRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return domain.Cart{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	products, err := mapRecordsToDomain(records)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapRecordsToDomain: %w", err)
	}

	c := domain.Cart{Products: products}
	if err := c.Validate(); err != nil {
		return domain.Cart{}, fmt.Errorf("c.Validate: %w", err)
	}

	return c, nil
}

func mapProductToRecord(p domain.Product) productRecord {
	r := productRecord{
		ID:     p.ID,
		Title:  p.Title,
		Price:  json.Number(p.Price.Amount.String()),
		Image:  p.Image,
		Amount: p.Amount,
	}
	if p.Price.Currency != (currency.Unit{}) {
		r.Currency = p.Price.Currency.String()
	}

	return r
}

func mapRecordToDomain(r productRecord) (domain.Product, error) {
	price, err := decimal.NewFromString(r.Price.String())
	if err != nil {
		return domain.Product{}, fmt.Errorf("price[%s] is not valid: %w", r.Price, err)
	}

	var unit currency.Unit
	if r.Currency != "" {
		unit, err = currency.ParseISO(r.Currency)
		if err != nil {
			return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", r.Currency, err)
		}
	}

	return domain.Product{
		ID:     r.ID,
		Title:  r.Title,
		Price:  domain.Money{Amount: price, Currency: unit},
		Image:  r.Image,
		Amount: r.Amount,
	}, nil
}

func mapRecordsToDomain(records []productRecord) ([]domain.Product, error) {
	var products []domain.Product

	for _, r := range records {
		p, err := mapRecordToDomain(r)
		if err != nil {
			return nil, fmt.Errorf("mapRecordToDomain: %w", err)
		}

		products = append(products, p)
	}

	return products, nil
}
