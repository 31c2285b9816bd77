// Package cart keeps the shopping cart state, validates every change against
// catalog stock and writes the result through to persistent storage.
package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/nikolayk812/cartstate/internal/domain"
	"github.com/nikolayk812/cartstate/internal/port"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultStorageKey = "@RocketShoes:cart"

	tracerName = "github.com/nikolayk812/cartstate/internal/cart"
)

var _ port.CartStore = (*Store)(nil)

type Store struct {
	catalog  port.Catalog
	storage  port.Storage
	notifier port.Notifier
	key      string
	log      logrus.FieldLogger
	tracer   trace.Tracer

	// opMu serializes mutations, including their catalog round trips, so two
	// overlapping adds never read the same stale amount.
	opMu sync.Mutex

	mu   sync.RWMutex
	cart domain.Cart
}

type Option func(*Store)

func WithStorageKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func WithNotifier(n port.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) { s.log = log }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Store) { s.tracer = tp.Tracer(tracerName) }
}

// Open loads the persisted cart, or starts empty when nothing is stored yet.
func Open(ctx context.Context, catalog port.Catalog, storage port.Storage, opts ...Option) (*Store, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is nil")
	}
	if storage == nil {
		return nil, fmt.Errorf("storage is nil")
	}

	discard := logrus.New()
	discard.Out = io.Discard

	s := &Store{
		catalog:  catalog,
		storage:  storage,
		notifier: nopNotifier{},
		key:      DefaultStorageKey,
		log:      discard,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.key == "" {
		return nil, fmt.Errorf("storage key is empty")
	}

	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("storage.Get: %w", err)
	}

	if ok {
		s.cart, err = decodeCart(raw)
		if err != nil {
			return nil, fmt.Errorf("decodeCart: %w", err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"key":      s.key,
		"products": s.cart.Len(),
	}).Info("cart loaded")

	return s, nil
}

// Cart returns a copy of the current cart.
func (s *Store) Cart() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cart.Clone()
}

func (s *Store) AddProduct(ctx context.Context, productID int64) (err error) {
	ctx, span := s.startSpan(ctx, OpAdd, productID)
	defer func() { s.finish(ctx, span, OpAdd, productID, err) }()

	s.opMu.Lock()
	defer s.opMu.Unlock()

	updated := s.Cart()

	existing, idx, found := updated.Find(productID)
	currentAmount := 0
	if found {
		currentAmount = existing.Amount
	}

	stock, err := s.catalog.GetStock(ctx, productID)
	if err != nil {
		return &Error{Op: OpAdd, Kind: KindUpstream, ProductID: productID, Err: fmt.Errorf("catalog.GetStock: %w", err)}
	}

	desiredAmount := currentAmount + 1
	if desiredAmount > stock.Amount {
		return stockExceeded(OpAdd, productID, desiredAmount, stock.Amount)
	}

	if found {
		updated.Products[idx].Amount = desiredAmount
	} else {
		product, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			return &Error{Op: OpAdd, Kind: KindUpstream, ProductID: productID, Err: fmt.Errorf("catalog.GetProduct: %w", err)}
		}

		product.Amount = 1
		updated.Products = append(updated.Products, product)
	}

	if err := s.commit(ctx, updated); err != nil {
		return &Error{Op: OpAdd, Kind: KindStorage, ProductID: productID, Err: err}
	}

	return nil
}

func (s *Store) RemoveProduct(ctx context.Context, productID int64) (err error) {
	ctx, span := s.startSpan(ctx, OpRemove, productID)
	defer func() { s.finish(ctx, span, OpRemove, productID, err) }()

	s.opMu.Lock()
	defer s.opMu.Unlock()

	updated := s.Cart()

	_, idx, found := updated.Find(productID)
	if !found {
		return &Error{Op: OpRemove, Kind: KindNotFound, ProductID: productID, Err: ErrNotInCart}
	}

	updated.Products = slices.Delete(updated.Products, idx, idx+1)

	if err := s.commit(ctx, updated); err != nil {
		return &Error{Op: OpRemove, Kind: KindStorage, ProductID: productID, Err: err}
	}

	return nil
}

// UpdateProductAmount sets an absolute amount. A non-positive amount is
// ignored; removing an entry is RemoveProduct's job.
func (s *Store) UpdateProductAmount(ctx context.Context, req port.UpdateProductAmount) (err error) {
	if req.Amount <= 0 {
		return nil
	}

	ctx, span := s.startSpan(ctx, OpUpdate, req.ProductID)
	span.SetAttributes(attribute.Int("cart.amount", req.Amount))
	defer func() { s.finish(ctx, span, OpUpdate, req.ProductID, err) }()

	s.opMu.Lock()
	defer s.opMu.Unlock()

	stock, err := s.catalog.GetStock(ctx, req.ProductID)
	if err != nil {
		return &Error{Op: OpUpdate, Kind: KindUpstream, ProductID: req.ProductID, Err: fmt.Errorf("catalog.GetStock: %w", err)}
	}

	if req.Amount > stock.Amount {
		return stockExceeded(OpUpdate, req.ProductID, req.Amount, stock.Amount)
	}

	updated := s.Cart()

	_, idx, found := updated.Find(req.ProductID)
	if !found {
		return &Error{Op: OpUpdate, Kind: KindNotFound, ProductID: req.ProductID, Err: ErrNotInCart}
	}

	updated.Products[idx].Amount = req.Amount

	if err := s.commit(ctx, updated); err != nil {
		return &Error{Op: OpUpdate, Kind: KindStorage, ProductID: req.ProductID, Err: err}
	}

	return nil
}

// commit persists updated and only then makes it the in-memory cart.
func (s *Store) commit(ctx context.Context, updated domain.Cart) error {
	encoded, err := encodeCart(updated)
	if err != nil {
		return fmt.Errorf("encodeCart: %w", err)
	}

	if err := s.storage.Set(ctx, s.key, encoded); err != nil {
		return fmt.Errorf("storage.Set: %w", err)
	}

	s.mu.Lock()
	s.cart = updated
	s.mu.Unlock()

	return nil
}

func (s *Store) startSpan(ctx context.Context, op Op, productID int64) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "cart."+string(op), trace.WithAttributes(
		attribute.Int64("product.id", productID),
	))
}

// finish reports the outcome of op to the notifier, the log and the span.
func (s *Store) finish(ctx context.Context, span trace.Span, op Op, productID int64, err error) {
	defer span.End()

	fields := logrus.Fields{
		"op":         op,
		"product_id": productID,
	}

	if err == nil {
		if p, _, ok := s.Cart().Find(productID); ok {
			fields["amount"] = p.Amount
		}
		s.log.WithFields(fields).Info("cart updated")
		return
	}

	var cartErr *Error
	if !errors.As(err, &cartErr) {
		cartErr = &Error{Op: op, Kind: KindUnknown, ProductID: productID, Err: err}
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, cartErr.Kind.String())

	fields["kind"] = cartErr.Kind.String()
	s.log.WithFields(fields).WithError(err).Warn("cart mutation rejected")

	s.notifier.Notify(ctx, domain.NewErrorNotification(cartErr.Message()))
}

func stockExceeded(op Op, productID int64, requested, available int) *Error {
	return &Error{
		Op:        op,
		Kind:      KindStockExceeded,
		ProductID: productID,
		Err:       fmt.Errorf("%w: requested[%d] available[%d]", ErrStockExceeded, requested, available),
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, domain.Notification) {}
