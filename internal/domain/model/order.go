package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文。明細（ProductInOrder）とまとめて1トランザクションで作成する。
type Order struct {
	ID         int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64            `gorm:"not null;index" json:"user_id"`
	Status     OrderStatus      `gorm:"type:varchar(30);not null;index" json:"status"`
	TotalPrice decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"total_price"`
	Comment    string           `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time        `gorm:"not null" json:"created_at"`
	Items      []ProductInOrder `gorm:"foreignKey:OrderID" json:"products"`
}
