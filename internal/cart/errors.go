package cart

import (
	"errors"
	"fmt"
)

// User-facing texts published to the notifier, one per failure class.
const (
	MsgStockExceeded = "Requested quantity exceeds stock"
	MsgAddFailed     = "Failed to add product"
	MsgRemoveFailed  = "Failed to remove product"
	MsgUpdateFailed  = "Failed to update product quantity"
)

var (
	ErrStockExceeded = errors.New("requested quantity exceeds stock")
	ErrNotInCart     = errors.New("product is not in the cart")
)

type Op string

const (
	OpAdd    Op = "AddProduct"
	OpRemove Op = "RemoveProduct"
	OpUpdate Op = "UpdateProductAmount"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindStockExceeded
	KindNotFound
	KindUpstream
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindStockExceeded:
		return "stock exceeded"
	case KindNotFound:
		return "not found"
	case KindUpstream:
		return "upstream failure"
	case KindStorage:
		return "storage failure"
	default:
		return "unknown"
	}
}

// Error describes a rejected mutation. The cart is unchanged whenever one is returned.
type Error struct {
	Op        Op
	Kind      Kind
	ProductID int64
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s product[%d]: %s: %v", e.Op, e.ProductID, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message is the fixed text shown to the user for this failure.
func (e *Error) Message() string {
	if e.Kind == KindStockExceeded {
		return MsgStockExceeded
	}

	switch e.Op {
	case OpAdd:
		return MsgAddFailed
	case OpRemove:
		return MsgRemoveFailed
	default:
		return MsgUpdateFailed
	}
}

// KindOf reports the Kind of a cart error, or KindUnknown for anything else.
func KindOf(err error) Kind {
	var cartErr *Error
	if errors.As(err, &cartErr) {
		return cartErr.Kind
	}

	return KindUnknown
}
