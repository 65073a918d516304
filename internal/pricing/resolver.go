// Package pricing resolves one canonical unit price out of the overlapping,
// possibly-null price sources carried by products and variants. It is pure
// computation: no I/O, no errors, always a finite non-negative amount.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/haroldnikoue/storefront-backend/pkg/db/models"
)

// ResolveUnitPrice walks the price waterfall and returns the first strictly
// positive value: variant sale price, variant price, product sale price,
// product base price, zero. The same waterfall prices items at add time and
// at cart-view time; diverging the two call sites would drift the displayed
// total from the charged amount.
func ResolveUnitPrice(product *models.Product, variant *models.ProductVariant) decimal.Decimal {
	if variant != nil {
		if variant.SalePrice.Valid && variant.SalePrice.Decimal.IsPositive() {
			return variant.SalePrice.Decimal
		}
		if variant.Price.IsPositive() {
			return variant.Price
		}
	}
	if product != nil {
		if product.SalePrice.Valid && product.SalePrice.Decimal.IsPositive() {
			return product.SalePrice.Decimal
		}
		if product.BasePrice.Valid && product.BasePrice.Decimal.IsPositive() {
			return product.BasePrice.Decimal
		}
	}
	return decimal.Zero
}

// ParseSnapshot parses a stored price snapshot, normalizing decimal-comma
// forms ("1.234,56", "1234,56"). Unparsable or negative input yields zero.
func ParseSnapshot(raw string) decimal.Decimal {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if cleaned == "" {
		return decimal.Zero
	}
	if strings.Contains(cleaned, ",") {
		if strings.Contains(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil || value.IsNegative() {
		return decimal.Zero
	}
	return value
}

// Line carries the inputs needed to price one cart line.
type Line struct {
	Quantity int
	Product  *models.Product
	Variant  *models.ProductVariant
	Snapshot string
}

// ResolveLineAmount returns quantity times the resolved unit price. The
// stored snapshot is a last-resort fallback for legacy rows whose catalog
// price resolves to zero; it never overrides a positive computed price.
func ResolveLineAmount(line Line) decimal.Decimal {
	if line.Quantity <= 0 {
		return decimal.Zero
	}
	unit := ResolveUnitPrice(line.Product, line.Variant)
	if unit.IsZero() {
		if snapshot := ParseSnapshot(line.Snapshot); snapshot.IsPositive() {
			unit = snapshot
		}
	}
	return unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// AggregateTotals sums line amounts and quantities across a cart.
func AggregateTotals(lines []Line) (total decimal.Decimal, itemCount int) {
	total = decimal.Zero
	for _, line := range lines {
		total = total.Add(ResolveLineAmount(line))
		itemCount += line.Quantity
	}
	return total, itemCount
}
