// Package catalog talks to the storefront product and stock API.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nikolayk812/cartstate/internal/domain"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/currency"
)

var (
	ErrNotFound          = errors.New("catalog: not found")
	ErrUnexpectedStatus  = errors.New("catalog: unexpected status")
	ErrMalformedResponse = errors.New("catalog: malformed response")
)

const maxBodyBytes = 1 << 20

type Client struct {
	baseURL    string
	httpClient *http.Client
	currency   currency.Unit
	log        logrus.FieldLogger
	tracer     trace.Tracer
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: d} }
}

// WithCurrency sets the unit attached to prices; the API serves bare numbers.
func WithCurrency(unit currency.Unit) Option {
	return func(c *Client) { c.currency = unit }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

func NewClient(baseURL string, opts ...Option) *Client {
	discard := logrus.New()
	discard.Out = io.Discard

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		currency:   currency.BRL,
		log:        discard,
		tracer:     otel.Tracer("github.com/nikolayk812/cartstate/internal/catalog"),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) GetStock(ctx context.Context, productID int64) (domain.Stock, error) {
	ctx, span := c.tracer.Start(ctx, "catalog.GetStock", trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer span.End()

	var payload stockPayload
	if err := c.getJSON(ctx, "/stock/"+strconv.FormatInt(productID, 10), &payload); err != nil {
		recordError(span, err)
		return domain.Stock{}, fmt.Errorf("c.getJSON: %w", err)
	}

	stock, err := mapStockToDomain(productID, payload)
	if err != nil {
		recordError(span, err)
		return domain.Stock{}, fmt.Errorf("mapStockToDomain: %w", err)
	}

	span.SetAttributes(attribute.Int("stock.amount", stock.Amount))
	return stock, nil
}

func (c *Client) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "catalog.GetProduct", trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer span.End()

	var payload productPayload
	if err := c.getJSON(ctx, "/products/"+strconv.FormatInt(productID, 10), &payload); err != nil {
		recordError(span, err)
		return domain.Product{}, fmt.Errorf("c.getJSON: %w", err)
	}

	product, err := mapProductToDomain(productID, payload, c.currency)
	if err != nil {
		recordError(span, err)
		return domain.Product{}, fmt.Errorf("mapProductToDomain: %w", err)
	}

	return product, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("catalog request")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
