package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/logger"
	"github.com/jhoicas/kardex-api/pkg/metrics"
)

// TransactionInput evento de negocio completo a orquestar.
// Para IN/OUT: WarehouseID + Lines. Para TRANSFER: WarehouseID (origen) y
// DestWarehouseID. AllowNegative solo lo activan los flujos de ajuste que
// corrigen intencionalmente a saldo negativo; queda persistido para auditoría.
type TransactionInput struct {
	CompanyID       string
	UserID          string
	WarehouseID     string
	DestWarehouseID string
	Type            string // IN, OUT, TRANSFER
	AllowNegative   bool
	VoucherType     string
	VoucherNumber   string
	ReferenceType   string
	ReferenceID     string
	ReferenceCode   string
	Notes           string
	Lines           []LineInput
}

// Orchestrator ejecuta un evento de inventario como unidad atómica:
// normaliza líneas, valida disponibilidad, y dentro de una sola transacción
// de BD encadena asiento del kardex + consumo/depósito por ubicación +
// actualización del agregado + fila de auditoría, por cada línea.
// La fila item_warehouse bloqueada (SELECT FOR UPDATE) serializa los eventos
// concurrentes sobre el mismo (item, bodega).
type Orchestrator struct {
	txRunner      TxRunner
	normalizer    *NormalizeUseCase
	warehouseRepo repository.WarehouseRepository
	stockRepo     repository.StockRepository
	met           *metrics.Metrics
	log           *logger.Logger
}

// NewOrchestrator construye el orquestador.
func NewOrchestrator(
	txRunner TxRunner,
	normalizer *NormalizeUseCase,
	warehouseRepo repository.WarehouseRepository,
	stockRepo repository.StockRepository,
	met *metrics.Metrics,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		txRunner:      txRunner,
		normalizer:    normalizer,
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
		met:           met,
		log:           log,
	}
}

// Execute orquesta el evento completo. Retorna el ID de la transacción creada
// o un error sin que nada quede escrito (la tx de BD se revierte entera; el
// caller puede reintentar desde cero ante ErrConcurrencyConflict).
func (uc *Orchestrator) Execute(ctx context.Context, input TransactionInput) (string, error) {
	lines, err := uc.Prepare(ctx, input)
	if err != nil {
		uc.countResult(input.Type, err)
		return "", err
	}

	var txID string
	now := time.Now()
	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		id, err := uc.ExecuteInTx(r, input, lines, now)
		if err != nil {
			return err
		}
		txID = id
		return nil
	})
	uc.countResult(input.Type, err)
	if err != nil {
		uc.log.Warn().Err(err).
			Str("type", input.Type).
			Str("warehouse_id", input.WarehouseID).
			Int("lines", len(input.Lines)).
			Msg("evento de inventario rechazado")
		return "", err
	}
	uc.log.Info().
		Str("transaction_id", txID).
		Str("type", input.Type).
		Str("warehouse_id", input.WarehouseID).
		Int("lines", len(lines)).
		Msg("evento de inventario confirmado")
	return txID, nil
}

// Prepare valida el evento, normaliza todas las líneas y hace la pre-validación
// gruesa de disponibilidad, todo antes de escribir nada. El chequeo definitivo
// ocurre al postear cada asiento, con la fila bloqueada.
func (uc *Orchestrator) Prepare(ctx context.Context, input TransactionInput) ([]NormalizedLine, error) {
	if err := uc.validate(input); err != nil {
		return nil, err
	}
	lines, err := uc.normalizer.NormalizeLines(ctx, input.CompanyID, input.Lines)
	if err != nil {
		return nil, err
	}
	if (input.Type == entity.TransactionTypeOUT || input.Type == entity.TransactionTypeTRANSFER) && !input.AllowNegative {
		if err := uc.precheckAvailability(input.WarehouseID, lines); err != nil {
			return nil, err
		}
	}
	return lines, nil
}

func (uc *Orchestrator) validate(input TransactionInput) error {
	switch input.Type {
	case entity.TransactionTypeIN, entity.TransactionTypeOUT:
		if input.WarehouseID == "" || len(input.Lines) == 0 {
			return domain.ErrInvalidInput
		}
	case entity.TransactionTypeTRANSFER:
		if input.WarehouseID == "" || input.DestWarehouseID == "" || len(input.Lines) == 0 {
			return domain.ErrInvalidInput
		}
		if input.WarehouseID == input.DestWarehouseID {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	if input.VoucherType == "" {
		return domain.ErrInvalidInput
	}

	wh, err := uc.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil {
		return err
	}
	if wh == nil || wh.CompanyID != input.CompanyID {
		return domain.ErrNotFound
	}
	if input.Type == entity.TransactionTypeTRANSFER {
		dest, err := uc.warehouseRepo.GetByID(input.DestWarehouseID)
		if err != nil {
			return err
		}
		if dest == nil || dest.CompanyID != input.CompanyID {
			return domain.ErrNotFound
		}
	}
	return nil
}

// precheckAvailability suma la demanda por item (varias líneas pueden repetir
// item) y la compara contra el agregado, sin bloquear filas.
func (uc *Orchestrator) precheckAvailability(warehouseID string, lines []NormalizedLine) error {
	demand := map[string]decimal.Decimal{}
	for _, line := range lines {
		demand[line.ItemID] = demand[line.ItemID].Add(line.NormalizedQty)
	}
	for itemID, qty := range demand {
		stock, err := uc.stockRepo.Get(itemID, warehouseID)
		if err != nil {
			return err
		}
		if stock.CurrentStock.LessThan(qty) {
			return &domain.InsufficientStockError{
				ItemID:      itemID,
				WarehouseID: warehouseID,
				Requested:   qty,
				Available:   stock.CurrentStock,
			}
		}
	}
	return nil
}

// ExecuteInTx ejecuta el evento usando repositorios ya atados a la transacción
// del caller. Lo usa la capa de documentos para postear varios eventos (ej.
// OUT de insumos + IN de productos de una transformación) y el cambio de
// estado del documento en una sola transacción de BD.
func (uc *Orchestrator) ExecuteInTx(r TxRepos, input TransactionInput, lines []NormalizedLine, now time.Time) (string, error) {
	header := &entity.StockTransaction{
		ID:              uuid.New().String(),
		CompanyID:       input.CompanyID,
		WarehouseID:     input.WarehouseID,
		DestWarehouseID: input.DestWarehouseID,
		Type:            input.Type,
		AllowNegative:   input.AllowNegative,
		VoucherType:     input.VoucherType,
		VoucherNumber:   input.VoucherNumber,
		ReferenceType:   input.ReferenceType,
		ReferenceID:     input.ReferenceID,
		ReferenceCode:   input.ReferenceCode,
		Notes:           input.Notes,
		CreatedAt:       now,
		CreatedBy:       input.UserID,
	}
	if err := r.Transactions.Create(header); err != nil {
		return "", err
	}

	for _, line := range lines {
		audit := &entity.StockTransactionItem{
			ID:               uuid.New().String(),
			TransactionID:    header.ID,
			ItemID:           line.ItemID,
			PackagingID:      line.PackagingID,
			InputQty:         line.InputQty,
			ConversionFactor: line.ConversionFactor,
			NormalizedQty:    line.NormalizedQty,
			UnitCost:         line.UnitCost,
			CreatedAt:        now,
		}

		switch input.Type {
		case entity.TransactionTypeIN:
			before, after, err := uc.applyIn(r, header, line, input.WarehouseID, now)
			if err != nil {
				return "", err
			}
			audit.StockBefore, audit.StockAfter = before, after

		case entity.TransactionTypeOUT:
			before, after, err := uc.applyOut(r, header, line, input.WarehouseID, now)
			if err != nil {
				return "", err
			}
			audit.StockBefore, audit.StockAfter = before, after

		case entity.TransactionTypeTRANSFER:
			if err := uc.applyTransfer(r, header, line, audit, now); err != nil {
				return "", err
			}
		}

		if err := r.Packagings.IncrementUsage(line.PackagingID); err != nil {
			return "", err
		}
		if err := r.Transactions.CreateItem(audit); err != nil {
			return "", err
		}
	}
	return header.ID, nil
}

// applyIn: bloquea la fila del agregado, postea el asiento desde el último
// saldo, deposita en la ubicación por defecto y fija el agregado al saldo nuevo.
func (uc *Orchestrator) applyIn(r TxRepos, header *entity.StockTransaction, line NormalizedLine, warehouseID string, now time.Time) (before, after decimal.Decimal, err error) {
	stock, err := r.Stock.GetForUpdate(line.ItemID, warehouseID)
	if err != nil {
		return before, after, err
	}
	entry, err := uc.appendEntry(r, header, line, warehouseID, line.NormalizedQty, now)
	if err != nil {
		return before, after, err
	}

	locationID, err := uc.resolveDefaultLocation(r, stock, warehouseID, now)
	if err != nil {
		return before, after, err
	}
	if err := depositToLocation(r.LocationStock, line.ItemID, warehouseID, locationID, line.NormalizedQty, now); err != nil {
		return before, after, err
	}

	before = entry.QtyAfterTransaction.Sub(entry.ActualQty)
	after = entry.QtyAfterTransaction
	stock.CurrentStock = after
	stock.UpdatedAt = now
	if err := r.Stock.Upsert(stock); err != nil {
		return before, after, err
	}
	return before, after, nil
}

// applyOut: bloquea la fila, postea el asiento negativo (rechaza saldo final
// negativo salvo AllowNegative) y consume ubicaciones en orden FIFO.
func (uc *Orchestrator) applyOut(r TxRepos, header *entity.StockTransaction, line NormalizedLine, warehouseID string, now time.Time) (before, after decimal.Decimal, err error) {
	stock, err := r.Stock.GetForUpdate(line.ItemID, warehouseID)
	if err != nil {
		return before, after, err
	}
	entry, err := uc.appendEntry(r, header, line, warehouseID, line.NormalizedQty.Neg(), now)
	if err != nil {
		return before, after, err
	}

	locationID, err := uc.resolveDefaultLocation(r, stock, warehouseID, now)
	if err != nil {
		return before, after, err
	}
	if err := consumeFIFO(r.LocationStock, line.ItemID, warehouseID, line.NormalizedQty, locationID, header.AllowNegative, now); err != nil {
		return before, after, err
	}

	before = entry.QtyAfterTransaction.Sub(entry.ActualQty)
	after = entry.QtyAfterTransaction
	stock.CurrentStock = after
	stock.UpdatedAt = now
	if err := r.Stock.Upsert(stock); err != nil {
		return before, after, err
	}
	return before, after, nil
}

// applyTransfer: salida en origen + entrada en destino con el mismo
// transaction_id. Los agregados se bloquean en orden determinista de bodega
// para evitar deadlocks entre traslados cruzados.
func (uc *Orchestrator) applyTransfer(r TxRepos, header *entity.StockTransaction, line NormalizedLine, audit *entity.StockTransactionItem, now time.Time) error {
	first, second := header.WarehouseID, header.DestWarehouseID
	if second < first {
		first, second = second, first
	}
	if _, err := r.Stock.GetForUpdate(line.ItemID, first); err != nil {
		return err
	}
	if _, err := r.Stock.GetForUpdate(line.ItemID, second); err != nil {
		return err
	}

	before, after, err := uc.applyOut(r, header, line, header.WarehouseID, now)
	if err != nil {
		return err
	}
	audit.StockBefore, audit.StockAfter = before, after

	destBefore, destAfter, err := uc.applyIn(r, header, line, header.DestWarehouseID, now)
	if err != nil {
		return err
	}
	audit.DestStockBefore, audit.DestStockAfter = destBefore, destAfter
	return nil
}

// appendEntry lee el último saldo del kardex y postea el asiento nuevo.
// Requiere la fila item_warehouse ya bloqueada por el caller.
func (uc *Orchestrator) appendEntry(r TxRepos, header *entity.StockTransaction, line NormalizedLine, warehouseID string, delta decimal.Decimal, now time.Time) (*entity.LedgerEntry, error) {
	prior := decimal.Zero
	if latest, err := r.Ledger.Latest(line.ItemID, warehouseID); err != nil {
		return nil, err
	} else if latest != nil {
		prior = latest.QtyAfterTransaction
	}

	newBalance := prior.Add(delta)
	if newBalance.IsNegative() && !header.AllowNegative {
		uc.met.InsufficientStock.Inc()
		return nil, &domain.InsufficientStockError{
			ItemID:      line.ItemID,
			WarehouseID: warehouseID,
			Requested:   delta.Neg(),
			Available:   prior,
		}
	}

	entry := &entity.LedgerEntry{
		CompanyID:           header.CompanyID,
		ItemID:              line.ItemID,
		WarehouseID:         warehouseID,
		TransactionID:       header.ID,
		PostingDate:         now.Truncate(24 * time.Hour),
		PostingTime:         now,
		ActualQty:           delta,
		QtyAfterTransaction: newBalance,
		ValuationRate:       line.UnitCost,
		StockValue:          newBalance.Mul(line.UnitCost),
		StockValueDiff:      delta.Mul(line.UnitCost),
		VoucherType:         header.VoucherType,
		VoucherNumber:       header.VoucherNumber,
		ReferenceType:       header.ReferenceType,
		ReferenceID:         header.ReferenceID,
		ReferenceCode:       header.ReferenceCode,
		CreatedAt:           now,
		CreatedBy:           header.CreatedBy,
	}
	if err := r.Ledger.Append(entry); err != nil {
		return nil, err
	}
	uc.met.LedgerEntriesTotal.Inc()
	return entry, nil
}

// resolveDefaultLocation retorna la ubicación por defecto del agregado,
// provisionándola de forma idempotente si la bodega aún no tiene una.
func (uc *Orchestrator) resolveDefaultLocation(r TxRepos, stock *entity.ItemWarehouse, warehouseID string, now time.Time) (string, error) {
	if stock.DefaultLocationID != "" {
		return stock.DefaultLocationID, nil
	}
	locationID, err := ensureDefaultLocation(r.Locations, warehouseID, now)
	if err != nil {
		return "", err
	}
	stock.DefaultLocationID = locationID
	return locationID, nil
}

func (uc *Orchestrator) countResult(txType string, err error) {
	status := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInsufficientStock):
		status = "insufficient_stock"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		status = "conflict"
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrConfiguration):
		status = "rejected"
	default:
		status = "error"
	}
	uc.met.TransactionsTotal.WithLabelValues(txType, status).Inc()
}
