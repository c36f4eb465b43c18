package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices serialize as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a catalog item. Sold marks a completed transaction,
// IsSale marks an active discount; the two flags are independent.
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string          `gorm:"size:255;index" json:"title"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"size:255;index" json:"category"`
	Image       string          `gorm:"size:1024" json:"image"`
	Sold        bool            `gorm:"default:false" json:"sold"`
	IsSale      bool            `gorm:"default:false" json:"is_sale"`
	// DateOfSale is only meaningful when Sold is true; the column itself
	// does not enforce that
	DateOfSale *time.Time `gorm:"type:date" json:"date_of_sale"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}
