package formatting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	assert.Equal(t, "$7,000.00", Currency(7000, "USD"))
	assert.Equal(t, "$12.35", Currency(12.345, "usdt"))
	assert.Contains(t, Currency(1500, "TRY"), "₺")
	assert.Equal(t, "10.00 XYZ", Currency(10, "XYZ"))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, "+5.50%", Percentage(5.5, 2))
	assert.Equal(t, "-4.25%", Percentage(-4.25, 2))
	assert.Equal(t, "0.00%", Percentage(0, 2))
	assert.Equal(t, "+0.1%", Percentage(0.06, 1))
}

func TestOptional(t *testing.T) {
	v := 1.23456
	assert.Equal(t, "n/a", OptionalPercentage(nil, 2))
	assert.Equal(t, "+1.23%", OptionalPercentage(&v, 2))
	assert.Equal(t, "n/a", OptionalNumber(nil, 2))
	assert.Equal(t, "1.235", OptionalNumber(&v, 3))
}
