package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 商品。画像は FileDetails を1つだけ持つ。
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	InStock     bool            `gorm:"not null;default:true" json:"in_stock"`
	ImageID     *int64          `gorm:"index" json:"-"`
	Image       *FileDetails    `gorm:"foreignKey:ImageID" json:"image,omitempty"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"last_update"`
}
