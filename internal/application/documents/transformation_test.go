package documents_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

func createOrder(t *testing.T, f *fixture, inputQty, outputQty int64) *entity.TransformationOrder {
	t.Helper()
	order, err := f.transformations.Create(context.Background(), companyID, userID, dto.CreateTransformationRequest{
		WarehouseID: sourceWH,
		Inputs: []dto.DocumentItemRequest{{
			ItemID:   inputItemID,
			InputQty: decimal.NewFromInt(inputQty),
		}},
		Outputs: []dto.DocumentItemRequest{{
			ItemID:   outputItemID,
			InputQty: decimal.NewFromInt(outputQty),
			UnitCost: decimal.NewFromInt(20),
		}},
	})
	require.NoError(t, err)
	require.Equal(t, entity.StatusDraft, order.Status)
	return order
}

func TestTransformacionCompletadaConsumeYProduce(t *testing.T) {
	f := newDocsFixture(t)
	ctx := context.Background()
	f.stockIn(t, inputItemID, sourceWH, 50)

	order := createOrder(t, f, 10, 5)

	_, err := f.transformations.Transition(ctx, companyID, userID, order.ID, entity.StatusPreparing)
	require.NoError(t, err)

	completed, err := f.transformations.Transition(ctx, companyID, userID, order.ID, entity.StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, entity.StatusCompleted, completed.Status)
	require.NotEmpty(t, completed.OutTransactionID)
	require.NotEmpty(t, completed.InTransactionID)
	require.NotEqual(t, completed.OutTransactionID, completed.InTransactionID)

	require.True(t, f.stock(t, inputItemID, sourceWH).Equal(decimal.NewFromInt(40)))
	require.True(t, f.stock(t, outputItemID, sourceWH).Equal(decimal.NewFromInt(5)))

	// Ambos eventos referencian la orden.
	outEntries, err := f.store.Repos().Ledger.ListByTransaction(completed.OutTransactionID)
	require.NoError(t, err)
	require.Len(t, outEntries, 1)
	require.Equal(t, entity.VoucherTypeTransformation, outEntries[0].VoucherType)
	require.Equal(t, "transformation_order", outEntries[0].ReferenceType)
	require.Equal(t, order.ID, outEntries[0].ReferenceID)

	inEntries, err := f.store.Repos().Ledger.ListByTransaction(completed.InTransactionID)
	require.NoError(t, err)
	require.Len(t, inEntries, 1)
	require.True(t, inEntries[0].ActualQty.Equal(decimal.NewFromInt(5)))

	stored, err := f.transformations.GetByID(ctx, companyID, order.ID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusCompleted, stored.Status)
	require.Equal(t, completed.OutTransactionID, stored.OutTransactionID)
	require.Equal(t, completed.InTransactionID, stored.InTransactionID)
}

func TestTransformacionAmbosEventosONinguno(t *testing.T) {
	f := newDocsFixture(t)
	ctx := context.Background()
	f.stockIn(t, inputItemID, sourceWH, 10)

	order := createOrder(t, f, 10, 5)
	_, err := f.transformations.Transition(ctx, companyID, userID, order.ID, entity.StatusPreparing)
	require.NoError(t, err)

	// Los insumos se agotaron entre la preparación y el cierre.
	f.stockOut(t, inputItemID, sourceWH, 10)

	_, err = f.transformations.Transition(ctx, companyID, userID, order.ID, entity.StatusCompleted)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nada quedó escrito: ni OUT de insumos, ni IN de productos, ni estado.
	stored, err := f.transformations.GetByID(ctx, companyID, order.ID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusPreparing, stored.Status)
	require.Empty(t, stored.OutTransactionID)
	require.Empty(t, stored.InTransactionID)
	require.Equal(t, 0, f.ledgerTotal(t, outputItemID, sourceWH))
	require.True(t, f.stock(t, outputItemID, sourceWH).IsZero())
	require.True(t, f.stock(t, inputItemID, sourceWH).IsZero())
}

func TestTransformacionPreparacionValidaInsumos(t *testing.T) {
	f := newDocsFixture(t)
	ctx := context.Background()
	f.stockIn(t, inputItemID, sourceWH, 5)

	order := createOrder(t, f, 10, 5)

	// No alcanzan los insumos: la orden no se libera a preparación.
	_, err := f.transformations.Transition(ctx, companyID, userID, order.ID, entity.StatusPreparing)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	stored, err := f.transformations.GetByID(ctx, companyID, order.ID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusDraft, stored.Status)
}

func TestTransformacionTransicionesInvalidas(t *testing.T) {
	f := newDocsFixture(t)
	ctx := context.Background()
	f.stockIn(t, inputItemID, sourceWH, 50)

	order := createOrder(t, f, 10, 5)

	// Completar sin pasar por PREPARING no está permitido.
	_, err := f.transformations.Transition(ctx, companyID, userID, order.ID, entity.StatusCompleted)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "transformation_order", invalid.Document)

	// COMPLETED es terminal.
	_, err = f.transformations.Transition(ctx, companyID, userID, order.ID, entity.StatusPreparing)
	require.NoError(t, err)
	_, err = f.transformations.Transition(ctx, companyID, userID, order.ID, entity.StatusCompleted)
	require.NoError(t, err)
	_, err = f.transformations.Transition(ctx, companyID, userID, order.ID, entity.StatusCancelled)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}
