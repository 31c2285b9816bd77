package port

import (
	"context"

	"github.com/nikolayk812/cartstate/internal/domain"
)

type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}
