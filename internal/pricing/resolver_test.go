package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/haroldnikoue/storefront-backend/pkg/db/models"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func nd(value string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(value), Valid: true}
}

func nullPrice() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

func TestResolveUnitPriceWaterfall(t *testing.T) {
	tests := []struct {
		name    string
		product *models.Product
		variant *models.ProductVariant
		want    string
	}{
		{
			name:    "variant sale price wins",
			product: &models.Product{BasePrice: nd("1000"), SalePrice: nd("800")},
			variant: &models.ProductVariant{Price: d("1200"), SalePrice: nd("900")},
			want:    "900",
		},
		{
			name:    "variant price beats product prices",
			product: &models.Product{BasePrice: nd("1000"), SalePrice: nd("800")},
			variant: &models.ProductVariant{Price: d("1200"), SalePrice: nullPrice()},
			want:    "1200",
		},
		{
			name:    "product sale price when no variant",
			product: &models.Product{BasePrice: nd("1000"), SalePrice: nd("800")},
			want:    "800",
		},
		{
			name:    "base price as final source",
			product: &models.Product{BasePrice: nd("1000"), SalePrice: nullPrice()},
			want:    "1000",
		},
		{
			name:    "zero sale price skipped",
			product: &models.Product{BasePrice: nd("1000"), SalePrice: nd("0")},
			want:    "1000",
		},
		{
			name:    "zero variant falls through to product",
			product: &models.Product{BasePrice: nd("500"), SalePrice: nullPrice()},
			variant: &models.ProductVariant{Price: d("0"), SalePrice: nullPrice()},
			want:    "500",
		},
		{
			name:    "nothing positive yields zero",
			product: &models.Product{BasePrice: nullPrice(), SalePrice: nullPrice()},
			want:    "0",
		},
		{
			name: "nil product and variant",
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveUnitPrice(tt.product, tt.variant)
			assert.True(t, got.Equal(d(tt.want)), "want %s got %s", tt.want, got)
		})
	}
}

func TestParseSnapshot(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"129.90", "129.90"},
		{"129,90", "129.90"},
		{"1.234,56", "1234.56"},
		{" 42 ", "42"},
		{"", "0"},
		{"abc", "0"},
		{"-5", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseSnapshot(tt.raw)
			assert.True(t, got.Equal(d(tt.want)), "want %s got %s", tt.want, got)
		})
	}
}

func TestResolveLineAmountUsesSnapshotOnlyAsFallback(t *testing.T) {
	product := &models.Product{BasePrice: nd("100"), SalePrice: nullPrice()}

	live := ResolveLineAmount(Line{Quantity: 2, Product: product, Snapshot: "999"})
	assert.True(t, live.Equal(d("200")), "positive computed price must win, got %s", live)

	orphanPriced := ResolveLineAmount(Line{Quantity: 2, Snapshot: "75,50"})
	assert.True(t, orphanPriced.Equal(d("151")), "snapshot fallback, got %s", orphanPriced)

	zero := ResolveLineAmount(Line{Quantity: 3, Snapshot: "garbage"})
	assert.True(t, zero.IsZero())
}

func TestResolveLineAmountNonPositiveQuantity(t *testing.T) {
	product := &models.Product{BasePrice: nd("100")}
	assert.True(t, ResolveLineAmount(Line{Quantity: 0, Product: product}).IsZero())
	assert.True(t, ResolveLineAmount(Line{Quantity: -1, Product: product}).IsZero())
}

func TestAggregateTotals(t *testing.T) {
	lines := []Line{
		{Quantity: 2, Product: &models.Product{BasePrice: nd("100")}},
		{Quantity: 3, Product: &models.Product{BasePrice: nd("50")}},
	}

	total, count := AggregateTotals(lines)
	assert.True(t, total.Equal(d("350")), "got %s", total)
	assert.Equal(t, 5, count)
}

func TestAggregateTotalsEmpty(t *testing.T) {
	total, count := AggregateTotals(nil)
	assert.True(t, total.IsZero())
	assert.Zero(t, count)
}

func TestAggregateTotalsMatchesSumOfLineAmounts(t *testing.T) {
	lines := []Line{
		{Quantity: 1, Product: &models.Product{SalePrice: nd("19.99"), BasePrice: nd("24.99")}},
		{Quantity: 4, Variant: &models.ProductVariant{Price: d("7.25")}},
		{Quantity: 2, Snapshot: "10,00"},
	}

	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(ResolveLineAmount(line))
	}

	total, _ := AggregateTotals(lines)
	assert.True(t, total.Equal(sum))
}
