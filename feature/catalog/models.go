package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is one catalog entry. At most one active row exists per ProductCode.
type Product struct {
	ID               string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	ProductCode      string    `gorm:"column:product_code;type:varchar(64);index" json:"product_code"`
	OldCode          string    `gorm:"column:old_code;type:varchar(64)" json:"old_code"`
	Description      string    `gorm:"column:description;type:varchar(255)" json:"description"`
	Price            *int64    `gorm:"column:price" json:"price"` // minor units
	GroupCode        string    `gorm:"column:group_code;type:varchar(64)" json:"group_code"`
	GroupDescription string    `gorm:"column:group_description;type:varchar(255)" json:"group_description"`
	Active           bool      `gorm:"column:active;not null;index" json:"active"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at" json:"updated_at"`
	Barcodes         []Barcode `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"barcodes"`
}

// TableName overrides the table name.
func (Product) TableName() string {
	return "products"
}

// BeforeCreate assigns a uuid when the caller did not.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Barcode belongs to exactly one product. Value identifies it within the product.
type Barcode struct {
	ID        string `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	ProductID string `gorm:"column:product_id;type:varchar(36);index" json:"-"`
	Value     string `gorm:"column:barcode;type:varchar(64)" json:"value"`
	Quantity  int    `gorm:"column:quantity" json:"quantity"`
}

// TableName overrides the table name.
func (Barcode) TableName() string {
	return "barcodes"
}

// BeforeCreate assigns a uuid when the caller did not.
func (b *Barcode) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Product{}, &Barcode{})
}
