package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
)

func TestNormalize_CajaDe12(t *testing.T) {
	// Vender 3 cajas de 12 = 36 unidades base.
	got, err := inventory.Normalize(decimal.NewFromInt(12), decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(36)), "3 x 12 debe ser 36, fue %s", got)
}

func TestNormalize_FactorUno(t *testing.T) {
	got, err := inventory.Normalize(decimal.NewFromInt(1), decimal.RequireFromString("7.5"))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("7.5")))
}

func TestNormalize_Errores(t *testing.T) {
	_, err := inventory.Normalize(decimal.Zero, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrConfiguration, "factor <= 0 es un problema de configuración")

	_, err = inventory.Normalize(decimal.NewFromInt(12), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.Normalize(decimal.NewFromInt(12), decimal.NewFromInt(-2))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestNormalize_RoundTrip verifica que normalizar y des-normalizar reproduce la
// entrada exacta para factores y cantidades con decimales.
func TestNormalize_RoundTrip(t *testing.T) {
	cases := []struct {
		factor string
		qty    string
	}{
		{"12", "3"},
		{"12", "0.5"},
		{"24", "1.25"},
		{"6", "7"},
		{"0.25", "16"},      // empaque fraccional (ej. cuarto de kilo)
		{"144", "2.000001"}, // precisión fina
	}
	for _, tc := range cases {
		factor := decimal.RequireFromString(tc.factor)
		qty := decimal.RequireFromString(tc.qty)

		normalized, err := inventory.Normalize(factor, qty)
		require.NoError(t, err)

		back, err := inventory.Denormalize(factor, normalized)
		require.NoError(t, err)
		assert.True(t, back.Equal(qty),
			"round-trip factor=%s qty=%s: esperado %s, obtenido %s", tc.factor, tc.qty, qty, back)
	}
}
