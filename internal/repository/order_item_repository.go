package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.ProductInOrder) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.ProductInOrder, error)
}
