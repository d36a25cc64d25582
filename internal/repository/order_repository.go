package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderRepository interface {
	//明細と商品までPreloadして返す
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	Create(ctx context.Context, order model.Order) (model.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
}
