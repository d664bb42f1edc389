package enums

import "fmt"

// ProductCategory represents the produce categories supported by the catalog.
type ProductCategory string

const (
	ProductCategoryFruits     ProductCategory = "fruits"
	ProductCategoryVegetables ProductCategory = "vegetables"
	ProductCategoryDairy      ProductCategory = "dairy"
	ProductCategoryBakery     ProductCategory = "bakery"
	ProductCategoryStaples    ProductCategory = "staples"
	ProductCategorySnacks     ProductCategory = "snacks"
	ProductCategoryBeverages  ProductCategory = "beverages"
	ProductCategoryHousehold  ProductCategory = "household"
)

var validProductCategories = []ProductCategory{
	ProductCategoryFruits,
	ProductCategoryVegetables,
	ProductCategoryDairy,
	ProductCategoryBakery,
	ProductCategoryStaples,
	ProductCategorySnacks,
	ProductCategoryBeverages,
	ProductCategoryHousehold,
}

// String implements fmt.Stringer.
func (p ProductCategory) String() string {
	return string(p)
}

// IsValid reports whether the category is recognized.
func (p ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductUnit describes how a product is measured and sold.
type ProductUnit string

const (
	ProductUnitKilogram ProductUnit = "kg"
	ProductUnitGram     ProductUnit = "g"
	ProductUnitLitre    ProductUnit = "l"
	ProductUnitPiece    ProductUnit = "pc"
	ProductUnitPack     ProductUnit = "pack"
	ProductUnitDozen    ProductUnit = "dozen"
)

var validProductUnits = []ProductUnit{
	ProductUnitKilogram,
	ProductUnitGram,
	ProductUnitLitre,
	ProductUnitPiece,
	ProductUnitPack,
	ProductUnitDozen,
}

// String implements fmt.Stringer.
func (p ProductUnit) String() string {
	return string(p)
}

// IsValid reports whether the unit is recognized.
func (p ProductUnit) IsValid() bool {
	for _, candidate := range validProductUnits {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductUnit converts raw input into a ProductUnit.
func ParseProductUnit(value string) (ProductUnit, error) {
	for _, candidate := range validProductUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product unit %q", value)
}
