package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctfiler/pkg/models"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1,234.56", 1234.56},
		{"AED 500.00", 500},
		{" 42 ", 42},
		{"(150.25)", -150.25},
		{"د.إ 99", 99},
	}
	for _, c := range cases {
		got, err := parseAmount(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}

	_, err := parseAmount("")
	assert.Error(t, err)
	_, err = parseAmount("not a number")
	assert.Error(t, err)
}

func TestParseTotalsFromText(t *testing.T) {
	text := `VAT Return
Period: 2025-01-01 to 2025-03-31
Standard rated supplies 100,000.00 VAT 5,000.00
Zero rated supplies 20,000.00
Output VAT 5,000.00
Standard rated expenses 40,000.00
Input VAT 2,000.00
Net VAT payable 3,000.00`

	totals, err := parseTotalsFromText(text)
	require.NoError(t, err)

	assert.Equal(t, "2025-01-01", totals.PeriodFrom)
	assert.Equal(t, "2025-03-31", totals.PeriodTo)
	assert.Equal(t, 100000.0, totals.Sales.StandardRated)
	assert.Equal(t, 20000.0, totals.Sales.ZeroRated)
	assert.Equal(t, 5000.0, totals.Sales.VATAmount)
	assert.Equal(t, 40000.0, totals.Purchases.StandardRated)
	assert.Equal(t, 2000.0, totals.Purchases.VATAmount)
	assert.Equal(t, 3000.0, totals.NetVATPayable)
}

func TestParseTotalsFromTextNoMatch(t *testing.T) {
	_, err := parseTotalsFromText("nothing relevant here")
	assert.ErrorIs(t, err, ErrNoTotalsFound)
}

func TestFillDerivedTotals(t *testing.T) {
	totals := &models.VATTotals{
		Sales:     models.VATBreakdown{StandardRated: 100, VATAmount: 5},
		Purchases: models.VATBreakdown{StandardRated: 40, VATAmount: 2},
	}
	fillDerivedTotals(totals)

	assert.Equal(t, 105.0, totals.Sales.Total)
	assert.Equal(t, 42.0, totals.Purchases.Total)
	assert.Equal(t, 3.0, totals.NetVATPayable)
}
