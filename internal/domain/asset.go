package domain

import "time"

// AssetType classifies the physical nature of an asset.
type AssetType string

const (
	AssetTypePhysical AssetType = "physical"
	AssetTypeVirtual  AssetType = "virtual"
	AssetTypeService  AssetType = "service"
	AssetTypeNetwork  AssetType = "network"
	AssetTypeSite     AssetType = "site"
)

var assetTypes = map[AssetType]struct{}{
	AssetTypePhysical: {},
	AssetTypeVirtual:  {},
	AssetTypeService:  {},
	AssetTypeNetwork:  {},
	AssetTypeSite:     {},
}

// Valid reports whether t is a known asset type.
func (t AssetType) Valid() bool {
	_, ok := assetTypes[t]
	return ok
}

// AssetCategory is the telecom network domain an asset belongs to.
type AssetCategory string

const (
	AssetCategoryCoreNetwork   AssetCategory = "core_network"
	AssetCategoryAccessNetwork AssetCategory = "access_network"
	AssetCategoryRadio         AssetCategory = "radio"
	AssetCategoryCustomer      AssetCategory = "customer"
	AssetCategoryDatacenter    AssetCategory = "datacenter"
	AssetCategoryTransport     AssetCategory = "transport"
	AssetCategoryPower         AssetCategory = "power"
	AssetCategoryOther         AssetCategory = "other"
)

var assetCategories = map[AssetCategory]struct{}{
	AssetCategoryCoreNetwork:   {},
	AssetCategoryAccessNetwork: {},
	AssetCategoryRadio:         {},
	AssetCategoryCustomer:      {},
	AssetCategoryDatacenter:    {},
	AssetCategoryTransport:     {},
	AssetCategoryPower:         {},
	AssetCategoryOther:         {},
}

// Valid reports whether c is a known category.
func (c AssetCategory) Valid() bool {
	_, ok := assetCategories[c]
	return ok
}

// Asset is a value/component covered by the risk analysis. Hierarchy is an
// arena keyed by ID with a nullable ParentID; children are found by lookup,
// never embedded.
type Asset struct {
	ID          int64
	Name        string
	Description *string
	AssetType   AssetType
	Category    AssetCategory
	Criticality int // 1-5
	ParentID    *int64
	Location    *string
	// ExternallySourced marks assets whose inventory record originates in an
	// external system. Passive flag only.
	ExternallySourced bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CriticalityLabel returns the Norwegian 1-5 criticality label.
func (a *Asset) CriticalityLabel() string {
	if a.Criticality == 5 {
		return "Kritisk"
	}
	return ScaleLabel(a.Criticality)
}

// Validate checks enum values and the criticality range.
func (a *Asset) Validate() error {
	if a.Name == "" {
		return ErrValidation("name is required")
	}
	if !a.AssetType.Valid() {
		return ErrValidation("unknown asset type %q", a.AssetType)
	}
	if !a.Category.Valid() {
		return ErrValidation("unknown asset category %q", a.Category)
	}
	return ValidateScale("criticality", a.Criticality)
}

// AssetFilter narrows asset list queries.
type AssetFilter struct {
	Category *AssetCategory
	ParentID *int64
	Page     PageRequest
}
