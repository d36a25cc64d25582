package model

// 注文の明細行。Quantityは必ず1以上。
type ProductInOrder struct {
	ID        int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64    `gorm:"not null;index" json:"order_id"`
	ProductID int64    `gorm:"not null;index" json:"product_id"`
	Quantity  int64    `gorm:"not null" json:"amount"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
