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

func createRequest(t *testing.T, f *fixture, qty int64) *entity.StockRequest {
	t.Helper()
	req, err := f.requests.Create(context.Background(), companyID, userID, dto.CreateStockRequestRequest{
		SourceWarehouseID: sourceWH,
		DestWarehouseID:   destWH,
		Items: []dto.DocumentItemRequest{{
			ItemID:   inputItemID,
			InputQty: decimal.NewFromInt(qty),
		}},
	})
	require.NoError(t, err)
	require.Equal(t, entity.StatusDraft, req.Status)
	return req
}

func TestStockRequestCumplidaRegistraTraslado(t *testing.T) {
	f := newDocsFixture(t)
	ctx := context.Background()
	f.stockIn(t, inputItemID, sourceWH, 100)

	req := createRequest(t, f, 40)

	_, err := f.requests.Transition(ctx, companyID, userID, req.ID, entity.StatusSubmitted)
	require.NoError(t, err)

	fulfilled, err := f.requests.Transition(ctx, companyID, userID, req.ID, entity.StatusFulfilled)
	require.NoError(t, err)
	require.Equal(t, entity.StatusFulfilled, fulfilled.Status)
	require.NotEmpty(t, fulfilled.TransactionID)

	require.True(t, f.stock(t, inputItemID, sourceWH).Equal(decimal.NewFromInt(60)))
	require.True(t, f.stock(t, inputItemID, destWH).Equal(decimal.NewFromInt(40)))

	// Dos asientos con la misma transacción, referenciando la solicitud.
	entries, err := f.store.Repos().Ledger.ListByTransaction(fulfilled.TransactionID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		require.Equal(t, entity.VoucherTypeStockRequest, e.VoucherType)
		require.Equal(t, "stock_request", e.ReferenceType)
		require.Equal(t, req.ID, e.ReferenceID)
	}

	// El estado persistido quedó ligado a la transacción.
	stored, err := f.requests.GetByID(ctx, companyID, req.ID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusFulfilled, stored.Status)
	require.Equal(t, fulfilled.TransactionID, stored.TransactionID)
}

func TestStockRequestInsuficienteConservaEstado(t *testing.T) {
	f := newDocsFixture(t)
	ctx := context.Background()
	f.stockIn(t, inputItemID, sourceWH, 10)

	req := createRequest(t, f, 40)
	_, err := f.requests.Transition(ctx, companyID, userID, req.ID, entity.StatusSubmitted)
	require.NoError(t, err)

	_, err = f.requests.Transition(ctx, companyID, userID, req.ID, entity.StatusFulfilled)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Ni movimiento ni cambio de estado.
	stored, err := f.requests.GetByID(ctx, companyID, req.ID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusSubmitted, stored.Status)
	require.Empty(t, stored.TransactionID)
	require.True(t, f.stock(t, inputItemID, sourceWH).Equal(decimal.NewFromInt(10)))
	require.True(t, f.stock(t, inputItemID, destWH).IsZero())
}

func TestStockRequestTransicionesInvalidas(t *testing.T) {
	f := newDocsFixture(t)
	ctx := context.Background()
	f.stockIn(t, inputItemID, sourceWH, 100)

	req := createRequest(t, f, 10)

	// Saltarse SUBMITTED no está permitido.
	_, err := f.requests.Transition(ctx, companyID, userID, req.ID, entity.StatusFulfilled)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "stock_request", invalid.Document)
	require.Equal(t, entity.StatusDraft, invalid.From)
	require.Equal(t, entity.StatusFulfilled, invalid.To)

	// CANCELLED es terminal.
	_, err = f.requests.Transition(ctx, companyID, userID, req.ID, entity.StatusCancelled)
	require.NoError(t, err)
	_, err = f.requests.Transition(ctx, companyID, userID, req.ID, entity.StatusSubmitted)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestStockRequestValidaciones(t *testing.T) {
	f := newDocsFixture(t)
	ctx := context.Background()
	line := dto.DocumentItemRequest{ItemID: inputItemID, InputQty: decimal.NewFromInt(1)}

	// Origen y destino no pueden ser la misma bodega.
	_, err := f.requests.Create(ctx, companyID, userID, dto.CreateStockRequestRequest{
		SourceWarehouseID: sourceWH,
		DestWarehouseID:   sourceWH,
		Items:             []dto.DocumentItemRequest{line},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Sin líneas no hay solicitud.
	_, err = f.requests.Create(ctx, companyID, userID, dto.CreateStockRequestRequest{
		SourceWarehouseID: sourceWH,
		DestWarehouseID:   destWH,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Bodega de otra empresa.
	f.store.SeedWarehouse(entity.Warehouse{ID: "wh-ajena", CompanyID: "co-999", Name: "Ajena"})
	_, err = f.requests.Create(ctx, companyID, userID, dto.CreateStockRequestRequest{
		SourceWarehouseID: sourceWH,
		DestWarehouseID:   "wh-ajena",
		Items:             []dto.DocumentItemRequest{line},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}
