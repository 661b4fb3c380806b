package schema

// DefaultCatalogVersion identifies the compiled-in catalog.
const DefaultCatalogVersion = "2024.1"

func bound(x float64) *float64 { return &x }

// DefaultCatalog returns the product feed fields. Each call returns a fresh copy.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Version: DefaultCatalogVersion,
		Fields: []FieldDefinition{
			{
				Name:        "sku",
				Necessity:   Required,
				Type:        String,
				Description: "The sku of the product or variant if applicable",
				Aliases:     []string{"productId", "article_number", "item_sku"},
			},
			{
				Name:        "costPrice",
				Necessity:   Required,
				Type:        Float,
				Description: "The purchase price (COGS)",
				Validation:  &Bounds{Min: bound(0)},
				Aliases:     []string{"cost", "purchase_price", "buying_price"},
			},
			{
				Name:        "title",
				Necessity:   Optional,
				Type:        String,
				Description: "The name of the product",
				Aliases:     []string{"name", "product_name", "product_title"},
			},
			{
				Name:        "salesPrice",
				Necessity:   Optional,
				Type:        Float,
				Description: "The net price the product is sold for",
				Validation:  &Bounds{Min: bound(0)},
				Aliases:     []string{"price", "selling_price", "retail_price"},
			},
			{
				Name:        "shippingCost",
				Necessity:   Optional,
				Type:        Float,
				Description: "The actual or average shipping cost per product",
				Validation:  &Bounds{Min: bound(0)},
				Aliases:     []string{"shipping", "delivery_cost"},
			},
			{
				Name:        "kickback",
				Necessity:   Optional,
				Type:        Float,
				Description: "The kickback for that product, in percent of purchase price, times 100",
				Validation:  &Bounds{Min: bound(0), Max: bound(100)},
				Aliases:     []string{"cashback", "rebate"},
			},
			{
				Name:        "vat",
				Necessity:   Optional,
				Type:        Integer,
				Description: "The VAT times 100 (25 for Sweden)",
				Validation:  &Bounds{Min: bound(0), Max: bound(100)},
				Aliases:     []string{"tax", "vat_rate", "tax_rate"},
			},
			{
				Name:        "brand",
				Necessity:   Preferred,
				Type:        String,
				Description: "The brand of the product",
				Aliases:     []string{"manufacturer", "make"},
			},
			{
				Name:        "category",
				Necessity:   Preferred,
				Type:        String,
				Description: "The category of the product",
				Aliases:     []string{"product_category", "product_type"},
			},
			{
				Name:        "returns",
				Necessity:   Optional,
				Type:        Float,
				Description: "The return rate for that product, in percent of purchase price, times 100",
				Validation:  &Bounds{Min: bound(0), Max: bound(100)},
				Aliases:     []string{"return_rate", "returns_rate", "return_percentage"},
			},
			{Name: "custom_1", Necessity: Optional, Type: String, Description: "Custom dimension for reporting", Aliases: []string{"customField1", "custom1"}},
			{Name: "custom_2", Necessity: Optional, Type: String, Description: "Custom dimension for reporting", Aliases: []string{"customField2", "custom2"}},
			{Name: "custom_3", Necessity: Optional, Type: String, Description: "Custom dimension for reporting", Aliases: []string{"customField3", "custom3"}},
			{Name: "custom_4", Necessity: Optional, Type: String, Description: "Custom dimension for reporting", Aliases: []string{"customField4", "custom4"}},
		},
	}
}
