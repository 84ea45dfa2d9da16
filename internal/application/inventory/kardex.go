package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// KardexResult reporte de asientos con saldo de apertura y total para paginar.
type KardexResult struct {
	OpeningBalance decimal.Decimal
	Entries        []*entity.LedgerEntry
	Total          int
}

// OnHandRow existencia actual de un item en la bodega, con estado de reorden.
type OnHandRow struct {
	Item         *entity.Item
	CurrentStock decimal.Decimal
	BelowReorder bool
	UpdatedAt    time.Time
}

// ReportUseCase lecturas del motor para reportes y dashboards: kardex por
// (item, bodega, rango de fechas) y existencias con punto de reorden.
type ReportUseCase struct {
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
	ledgerRepo    repository.LedgerRepository
	stockRepo     repository.StockRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
	ledgerRepo repository.LedgerRepository,
	stockRepo repository.StockRepository,
) *ReportUseCase {
	return &ReportUseCase{
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		ledgerRepo:    ledgerRepo,
		stockRepo:     stockRepo,
	}
}

// Kardex retorna los asientos de (item, bodega) en el rango, en orden de
// posteo, con el saldo de apertura (saldo anterior a from; 0 si no hay).
func (uc *ReportUseCase) Kardex(ctx context.Context, companyID, itemID, warehouseID string, from, to *time.Time, limit, offset int) (*KardexResult, error) {
	if itemID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkOwnership(companyID, itemID, warehouseID); err != nil {
		return nil, err
	}

	opening := decimal.Zero
	if from != nil {
		b, err := uc.ledgerRepo.OpeningBalance(itemID, warehouseID, *from)
		if err != nil {
			return nil, err
		}
		opening = b
	}

	entries, total, err := uc.ledgerRepo.List(itemID, warehouseID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	return &KardexResult{OpeningBalance: opening, Entries: entries, Total: total}, nil
}

// OnHand retorna la existencia actual por item en la bodega, marcando los que
// están en o por debajo de su punto de reorden.
func (uc *ReportUseCase) OnHand(ctx context.Context, companyID, warehouseID string, limit, offset int) ([]OnHandRow, error) {
	wh, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil || wh.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}

	aggregates, err := uc.stockRepo.ListByWarehouse(warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	rows := make([]OnHandRow, 0, len(aggregates))
	for _, agg := range aggregates {
		item, err := uc.itemRepo.GetByID(agg.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil || item.CompanyID != companyID {
			continue
		}
		rows = append(rows, OnHandRow{
			Item:         item,
			CurrentStock: agg.CurrentStock,
			BelowReorder: agg.CurrentStock.LessThanOrEqual(item.ReorderPoint),
			UpdatedAt:    agg.UpdatedAt,
		})
	}
	return rows, nil
}

func (uc *ReportUseCase) checkOwnership(companyID, itemID, warehouseID string) error {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return err
	}
	if item == nil || item.CompanyID != companyID {
		return domain.ErrNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return err
	}
	if wh == nil || wh.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return nil
}
