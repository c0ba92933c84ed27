package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AssetTypeKind enumerates the built-in asset categories.
type AssetTypeKind string

const (
	AssetTypeStocks     AssetTypeKind = "stocks"
	AssetTypeBonds      AssetTypeKind = "bonds"
	AssetTypeCrypto     AssetTypeKind = "crypto"
	AssetTypeETF        AssetTypeKind = "etf"
	AssetTypeRealEstate AssetTypeKind = "real_estate"
)

var knownAssetTypes = map[AssetTypeKind]bool{
	AssetTypeStocks:     true,
	AssetTypeBonds:      true,
	AssetTypeCrypto:     true,
	AssetTypeETF:        true,
	AssetTypeRealEstate: true,
}

// AssetType is either a built-in kind or a free-text custom label. Custom
// labels share the single string column with the enumerated values, so the
// variant is only visible at the domain layer.
type AssetType struct {
	kind   AssetTypeKind
	custom string
}

// KnownAssetType returns the AssetType for a built-in kind.
func KnownAssetType(kind AssetTypeKind) AssetType {
	return AssetType{kind: kind}
}

// CustomAssetType returns an AssetType carrying a user-supplied label.
func CustomAssetType(label string) AssetType {
	return AssetType{custom: label}
}

// ParseAssetType maps a stored or submitted string onto the variant: strings
// matching a built-in kind are Known, everything else is Custom.
func ParseAssetType(s string) AssetType {
	if knownAssetTypes[AssetTypeKind(s)] {
		return AssetType{kind: AssetTypeKind(s)}
	}
	return AssetType{custom: s}
}

// IsCustom reports whether the type carries a custom label.
func (t AssetType) IsCustom() bool {
	return t.custom != ""
}

func (t AssetType) String() string {
	if t.custom != "" {
		return t.custom
	}
	return string(t.kind)
}

// Value implements driver.Valuer, collapsing the variant to one string column.
func (t AssetType) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner.
func (t *AssetType) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*t = ParseAssetType(v)
	case []byte:
		*t = ParseAssetType(string(v))
	case nil:
		*t = AssetType{}
	default:
		return fmt.Errorf("cannot scan %T into AssetType", value)
	}
	return nil
}

func (t AssetType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *AssetType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseAssetType(s)
	return nil
}

// ValuationMode indicates how an asset is priced. Only manual snapshots are
// supported today; market mode is reserved for live pricing.
type ValuationMode string

const (
	ValuationModeMarket ValuationMode = "market"
	ValuationModeManual ValuationMode = "manual"
)

// Asset represents one investment holding owned by a household member.
type Asset struct {
	ID          string    `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	HouseholdID string    `json:"household_id" gorm:"column:household_id;type:varchar(255);not null;index"`
	MemberID    string    `json:"member_id" gorm:"column:member_id;type:varchar(255);not null;index"`
	Name        string    `json:"name" gorm:"column:name;type:varchar(255);not null"`
	Symbol      *string   `json:"symbol,omitempty" gorm:"column:symbol;type:varchar(50)"`
	AssetType   AssetType `json:"asset_type" gorm:"column:asset_type;type:varchar(100);not null;index"`
	Currency    string    `json:"currency" gorm:"column:currency;type:varchar(10);not null"`

	// Quantity is a denormalized read optimization, recomputed from the
	// ledger after every transaction change. Metrics never read it.
	Quantity decimal.Decimal `json:"quantity" gorm:"column:quantity;type:decimal(30,18);not null;default:0"`

	ValuationMode ValuationMode `json:"valuation_mode" gorm:"column:valuation_mode;type:varchar(20);not null;default:'manual'"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;type:timestamptz;autoUpdateTime"`
}

// TableName returns the table name for the Asset model
func (Asset) TableName() string {
	return "investment_assets"
}

// Validate validates the asset data
func (a *Asset) Validate() error {
	if a.HouseholdID == "" {
		return errors.New("household_id is required")
	}
	if a.MemberID == "" {
		return errors.New("member_id is required")
	}
	if a.Name == "" {
		return errors.New("name is required")
	}
	if a.AssetType.String() == "" {
		return errors.New("asset_type is required")
	}
	if a.Currency == "" {
		return errors.New("currency is required")
	}
	if a.ValuationMode != ValuationModeMarket && a.ValuationMode != ValuationModeManual {
		return errors.New("valuation_mode must be 'market' or 'manual'")
	}
	return nil
}
