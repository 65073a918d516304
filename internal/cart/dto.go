package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haroldnikoue/storefront-backend/pkg/db/models"
	"github.com/haroldnikoue/storefront-backend/pkg/enums"
)

// CartRef identifies a cart returned by find-or-create.
type CartRef struct {
	ID uuid.UUID `json:"id"`
}

// CartView is the fully joined, priced projection of a cart.
type CartView struct {
	ID        uuid.UUID        `json:"id"`
	Status    enums.CartStatus `json:"status"`
	Items     []CartItemView   `json:"items"`
	Total     decimal.Decimal  `json:"total"`
	ItemCount int              `json:"item_count"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// CartItemView carries one priced line plus its display joins.
type CartItemView struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	Product   ProductSummary  `json:"product"`
	Variant   *VariantSummary `json:"variant,omitempty"`
}

// ProductSummary is the display subset of a product joined into a cart line.
type ProductSummary struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	BrandName *string   `json:"brand_name,omitempty"`
	ImageURL  *string   `json:"image_url,omitempty"`
}

// VariantSummary resolves a variant for display. DisplayName joins the
// structured option pairs, or falls back to the variant's bare name when no
// structured options exist.
type VariantSummary struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	DisplayName string       `json:"display_name"`
	Options     []OptionPair `json:"options,omitempty"`
}

// OptionPair is one resolved option name/value association.
type OptionPair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func newProductSummary(product *models.Product) ProductSummary {
	summary := ProductSummary{
		ID:   product.ID,
		Slug: product.Slug,
		Name: product.Name,
		SKU:  product.SKU,
	}
	if product.Brand != nil {
		summary.BrandName = &product.Brand.Name
	}
	if url := mainImageURL(product.Images); url != "" {
		summary.ImageURL = &url
	}
	return summary
}

// mainImageURL prefers the image flagged as main; otherwise the first by
// sort order (images arrive pre-sorted from the repository).
func mainImageURL(images []models.ProductImage) string {
	for _, img := range images {
		if img.IsMain {
			return img.URL
		}
	}
	if len(images) > 0 {
		return images[0].URL
	}
	return ""
}

func newVariantSummary(variant *models.ProductVariant) *VariantSummary {
	if variant == nil {
		return nil
	}
	summary := &VariantSummary{
		ID:   variant.ID,
		Name: variant.Name,
	}
	for _, ov := range variant.OptionValues {
		summary.Options = append(summary.Options, OptionPair{
			Name:  ov.OptionName,
			Value: ov.OptionValue,
		})
	}
	summary.DisplayName = variantDisplayName(variant)
	return summary
}

func variantDisplayName(variant *models.ProductVariant) string {
	if len(variant.OptionValues) == 0 {
		return variant.Name
	}
	name := ""
	for i, ov := range variant.OptionValues {
		if i > 0 {
			name += " / "
		}
		name += ov.OptionValue
	}
	return name
}
