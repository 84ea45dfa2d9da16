package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

func newPackagings(store *memory.Store) *inventory.PackagingUseCase {
	return inventory.NewPackagingUseCase(store.Items(), store.Repos().Packagings)
}

func TestPackagingCreateValidaciones(t *testing.T) {
	store, _ := newFixture(t)
	uc := newPackagings(store)
	ctx := context.Background()

	// Factor no positivo.
	_, err := uc.Create(ctx, testCompanyID, testItemID, dto.CreatePackagingRequest{
		PackType:         "pallet",
		ConversionFactor: decimal.Zero,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Un base con factor distinto de 1 no es un base.
	_, err = uc.Create(ctx, testCompanyID, testItemID, dto.CreatePackagingRequest{
		PackType:         "unit",
		ConversionFactor: decimal.NewFromInt(2),
		IsBase:           true,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// El item ya tiene empaque base.
	_, err = uc.Create(ctx, testCompanyID, testItemID, dto.CreatePackagingRequest{
		PackType:         "unit",
		ConversionFactor: decimal.NewFromInt(1),
		IsBase:           true,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Item de otra empresa.
	_, err = uc.Create(ctx, "co-999", testItemID, dto.CreatePackagingRequest{
		PackType:         "pallet",
		ConversionFactor: decimal.NewFromInt(48),
	})
	require.ErrorIs(t, err, domain.ErrForbidden)

	// Caso válido.
	pkg, err := uc.Create(ctx, testCompanyID, testItemID, dto.CreatePackagingRequest{
		PackType:         "pallet",
		Label:            "Estiba x48",
		ConversionFactor: decimal.NewFromInt(48),
	})
	require.NoError(t, err)
	require.True(t, pkg.IsActive)
	require.False(t, pkg.IsBase)
}

func TestPackagingFactorInmutableConMovimientos(t *testing.T) {
	store, orch := newFixture(t)
	uc := newPackagings(store)
	ctx := context.Background()

	// Sin movimientos el factor todavía se puede corregir.
	factor := decimal.NewFromInt(24)
	pkg, err := uc.Update(ctx, testCompanyID, boxPackID, dto.UpdatePackagingRequest{
		ConversionFactor: &factor,
	})
	require.NoError(t, err)
	require.True(t, pkg.ConversionFactor.Equal(factor))

	// Primer movimiento con el empaque: el factor queda congelado.
	execIn(t, orch, 2, boxPackID)

	factor = decimal.NewFromInt(12)
	_, err = uc.Update(ctx, testCompanyID, boxPackID, dto.UpdatePackagingRequest{
		ConversionFactor: &factor,
	})
	require.ErrorIs(t, err, domain.ErrPackagingInUse)

	// La etiqueta sigue siendo editable.
	label := "Caja x24"
	pkg, err = uc.Update(ctx, testCompanyID, boxPackID, dto.UpdatePackagingRequest{
		Label: &label,
	})
	require.NoError(t, err)
	require.Equal(t, label, pkg.Label)
}

func TestPackagingBaseNoSeDesactiva(t *testing.T) {
	store, _ := newFixture(t)
	uc := newPackagings(store)

	inactive := false
	_, err := uc.Update(context.Background(), testCompanyID, basePackID, dto.UpdatePackagingRequest{
		IsActive: &inactive,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
