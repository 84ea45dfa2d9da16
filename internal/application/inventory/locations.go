package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ensureDefaultLocation retorna la ubicación por defecto de la bodega, creándola
// una sola vez si no existe (idempotente dentro de la transacción).
func ensureDefaultLocation(locations repository.LocationRepository, warehouseID string, now time.Time) (string, error) {
	loc, err := locations.GetDefault(warehouseID)
	if err != nil {
		return "", err
	}
	if loc != nil {
		return loc.ID, nil
	}
	loc = &entity.Location{
		ID:          uuid.New().String(),
		WarehouseID: warehouseID,
		Code:        "DEFAULT",
		IsDefault:   true,
		CreatedAt:   now,
	}
	if err := locations.Create(loc); err != nil {
		return "", err
	}
	return loc.ID, nil
}

// depositToLocation suma qty a la existencia de la ubicación (creando la fila
// si no existe) y refresca stocked_at, que es la llave del orden FIFO.
func depositToLocation(locationStock repository.ItemLocationRepository, itemID, warehouseID, locationID string, qty decimal.Decimal, now time.Time) error {
	row, err := locationStock.Get(itemID, warehouseID, locationID)
	if err != nil {
		return err
	}
	if row == nil {
		row = &entity.ItemLocationStock{
			ItemID:      itemID,
			WarehouseID: warehouseID,
			LocationID:  locationID,
			QtyOnHand:   decimal.Zero,
		}
	}
	row.QtyOnHand = row.QtyOnHand.Add(qty)
	row.StockedAt = now
	row.UpdatedAt = now
	return locationStock.Upsert(row)
}

// consumeFIFO retira exactamente qty unidades base recorriendo las ubicaciones
// de la bodega en orden FIFO (repuesta hace más tiempo primero, desempate por
// id de ubicación). Ninguna ubicación queda negativa; si el total disponible no
// alcanza, falla con InsufficientStockError y la transacción del caller
// revierte todo (nada parcial). Con allowNegative el faltante se aplica a la
// ubicación por defecto, que puede quedar negativa, para conservar el
// invariante sum(ubicaciones) == agregado.
func consumeFIFO(locationStock repository.ItemLocationRepository, itemID, warehouseID string, qty decimal.Decimal, defaultLocationID string, allowNegative bool, now time.Time) error {
	rows, err := locationStock.ListFIFO(itemID, warehouseID)
	if err != nil {
		return err
	}

	remaining := qty
	available := decimal.Zero
	for _, row := range rows {
		available = available.Add(row.QtyOnHand)
	}
	if available.LessThan(qty) && !allowNegative {
		return &domain.InsufficientStockError{
			ItemID:      itemID,
			WarehouseID: warehouseID,
			Requested:   qty,
			Available:   available,
		}
	}

	for _, row := range rows {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		take := decimal.Min(remaining, row.QtyOnHand)
		if !take.GreaterThan(decimal.Zero) {
			continue
		}
		row.QtyOnHand = row.QtyOnHand.Sub(take)
		row.UpdatedAt = now
		if err := locationStock.Upsert(row); err != nil {
			return err
		}
		remaining = remaining.Sub(take)
	}

	if remaining.GreaterThan(decimal.Zero) {
		// Solo alcanzable con allowNegative: corrección auditada.
		return depositToLocation(locationStock, itemID, warehouseID, defaultLocationID, remaining.Neg(), now)
	}
	return nil
}

// LocationUseCase expone las operaciones finas de ubicación a los flujos que
// reciben en un bin específico o reacomodan existencias.
type LocationUseCase struct {
	txRunner      TxRunner
	warehouseRepo repository.WarehouseRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(txRunner TxRunner, warehouseRepo repository.WarehouseRepository) *LocationUseCase {
	return &LocationUseCase{txRunner: txRunner, warehouseRepo: warehouseRepo}
}

// EnsureWarehouseDefaultLocation provisiona (una sola vez) la ubicación por
// defecto de la bodega y retorna su id.
func (uc *LocationUseCase) EnsureWarehouseDefaultLocation(ctx context.Context, companyID, warehouseID string) (string, error) {
	wh, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return "", err
	}
	if wh == nil || wh.CompanyID != companyID {
		return "", domain.ErrNotFound
	}
	var locationID string
	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		id, err := ensureDefaultLocation(r.Locations, warehouseID, time.Now())
		if err != nil {
			return err
		}
		locationID = id
		return nil
	})
	return locationID, err
}

// AdjustItemLocation mueve qty entre dos ubicaciones de la misma bodega sin
// tocar el kardex ni el agregado (la suma por bodega no cambia).
func (uc *LocationUseCase) AdjustItemLocation(ctx context.Context, companyID, itemID, warehouseID, fromLocationID, toLocationID string, qty decimal.Decimal) error {
	if itemID == "" || warehouseID == "" || fromLocationID == "" || toLocationID == "" ||
		fromLocationID == toLocationID || !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return err
	}
	if wh == nil || wh.CompanyID != companyID {
		return domain.ErrNotFound
	}

	return uc.txRunner.Run(ctx, func(r TxRepos) error {
		// Serializar contra el orquestador: misma fila de agregado.
		if _, err := r.Stock.GetForUpdate(itemID, warehouseID); err != nil {
			return err
		}
		for _, locID := range []string{fromLocationID, toLocationID} {
			loc, err := r.Locations.GetByID(locID)
			if err != nil {
				return err
			}
			if loc == nil || loc.WarehouseID != warehouseID {
				return domain.ErrNotFound
			}
		}

		now := time.Now()
		origin, err := r.LocationStock.Get(itemID, warehouseID, fromLocationID)
		if err != nil {
			return err
		}
		if origin == nil || origin.QtyOnHand.LessThan(qty) {
			available := decimal.Zero
			if origin != nil {
				available = origin.QtyOnHand
			}
			return &domain.InsufficientStockError{
				ItemID:      itemID,
				WarehouseID: warehouseID,
				LocationID:  fromLocationID,
				Requested:   qty,
				Available:   available,
			}
		}
		origin.QtyOnHand = origin.QtyOnHand.Sub(qty)
		origin.UpdatedAt = now
		if err := r.LocationStock.Upsert(origin); err != nil {
			return err
		}
		return depositToLocation(r.LocationStock, itemID, warehouseID, toLocationID, qty, now)
	})
}

// ConsumeItemLocationsFIFO consume qty en orden FIFO dentro de su propia
// transacción, para flujos que manejan el kardex por separado.
func (uc *LocationUseCase) ConsumeItemLocationsFIFO(ctx context.Context, companyID, itemID, warehouseID string, qty decimal.Decimal) error {
	if itemID == "" || warehouseID == "" || !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return err
	}
	if wh == nil || wh.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return uc.txRunner.Run(ctx, func(r TxRepos) error {
		stock, err := r.Stock.GetForUpdate(itemID, warehouseID)
		if err != nil {
			return err
		}
		now := time.Now()
		defaultLoc := stock.DefaultLocationID
		if defaultLoc == "" {
			defaultLoc, err = ensureDefaultLocation(r.Locations, warehouseID, now)
			if err != nil {
				return err
			}
		}
		return consumeFIFO(r.LocationStock, itemID, warehouseID, qty, defaultLoc, false, now)
	})
}
