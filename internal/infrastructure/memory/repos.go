package memory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var (
	_ repository.ItemRepository                = (*ItemRepo)(nil)
	_ repository.PackagingRepository           = (*PackagingRepo)(nil)
	_ repository.WarehouseRepository           = (*WarehouseRepo)(nil)
	_ repository.LocationRepository            = (*LocationRepo)(nil)
	_ repository.LedgerRepository              = (*LedgerRepo)(nil)
	_ repository.StockRepository               = (*StockRepo)(nil)
	_ repository.ItemLocationRepository        = (*ItemLocationRepo)(nil)
	_ repository.StockTransactionRepository    = (*StockTransactionRepo)(nil)
	_ repository.StockRequestRepository        = (*StockRequestRepo)(nil)
	_ repository.TransformationOrderRepository = (*TransformationOrderRepo)(nil)
	_ repository.PurchaseReceiptRepository     = (*PurchaseReceiptRepo)(nil)
)

// ItemRepo repositorio de items en memoria.
type ItemRepo struct{ s *Store }

func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if it, ok := r.s.items[id]; ok {
		return &it, nil
	}
	return nil, nil
}

func (r *ItemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Item
	for _, it := range r.s.items {
		if it.CompanyID == companyID {
			it := it
			list = append(list, &it)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	return paginate(list, limit, offset), nil
}

// PackagingRepo repositorio de empaques en memoria.
type PackagingRepo struct{ s *Store }

func (r *PackagingRepo) Create(p *entity.Packaging) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.IsBase {
		for _, other := range r.s.packagings {
			if other.ItemID == p.ItemID && other.IsBase {
				return domain.ErrConfiguration
			}
		}
	}
	r.s.packagings[p.ID] = *p
	return nil
}

func (r *PackagingRepo) GetByID(id string) (*entity.Packaging, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.packagings[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *PackagingRepo) GetBase(itemID string) (*entity.Packaging, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.packagings {
		if p.ItemID == itemID && p.IsBase {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *PackagingRepo) ListByItem(itemID string) ([]*entity.Packaging, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Packaging
	for _, p := range r.s.packagings {
		if p.ItemID == itemID {
			p := p
			list = append(list, &p)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].IsBase != list[j].IsBase {
			return list[i].IsBase
		}
		return list[i].ConversionFactor.LessThan(list[j].ConversionFactor)
	})
	return list, nil
}

func (r *PackagingRepo) Update(p *entity.Packaging) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.packagings[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.packagings[p.ID] = *p
	return nil
}

func (r *PackagingRepo) IncrementUsage(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.packagings[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.UsageCount++
	r.s.packagings[id] = p
	return nil
}

// WarehouseRepo repositorio de bodegas en memoria.
type WarehouseRepo struct{ s *Store }

func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if w, ok := r.s.warehouses[id]; ok {
		return &w, nil
	}
	return nil, nil
}

// LocationRepo repositorio de ubicaciones en memoria.
type LocationRepo struct{ s *Store }

func (r *LocationRepo) Create(loc *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if loc.ID == "" {
		loc.ID = uuid.New().String()
	}
	if loc.IsDefault {
		for _, other := range r.s.locations {
			if other.WarehouseID == loc.WarehouseID && other.IsDefault {
				return domain.ErrConcurrencyConflict
			}
		}
	}
	r.s.locations[loc.ID] = *loc
	return nil
}

func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if loc, ok := r.s.locations[id]; ok {
		return &loc, nil
	}
	return nil, nil
}

func (r *LocationRepo) GetDefault(warehouseID string) (*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, loc := range r.s.locations {
		if loc.WarehouseID == warehouseID && loc.IsDefault {
			loc := loc
			return &loc, nil
		}
	}
	return nil, nil
}

func (r *LocationRepo) ListByWarehouse(warehouseID string) ([]*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Location
	for _, loc := range r.s.locations {
		if loc.WarehouseID == warehouseID {
			loc := loc
			list = append(list, &loc)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].IsDefault != list[j].IsDefault {
			return list[i].IsDefault
		}
		return list[i].Code < list[j].Code
	})
	return list, nil
}

// LedgerRepo repositorio del kardex en memoria (append-only).
type LedgerRepo struct{ s *Store }

func (r *LedgerRepo) Append(e *entity.LedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.nextLedgerID
	r.s.nextLedgerID++
	r.s.ledger = append(r.s.ledger, *e)
	return nil
}

func (r *LedgerRepo) Latest(itemID, warehouseID string) (*entity.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *entity.LedgerEntry
	for i := range r.s.ledger {
		e := r.s.ledger[i]
		if e.ItemID != itemID || e.WarehouseID != warehouseID {
			continue
		}
		if latest == nil || postedBefore(*latest, e) {
			latest = &e
		}
	}
	return latest, nil
}

func (r *LedgerRepo) GetByID(id int64) (*entity.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.ledger {
		if r.s.ledger[i].ID == id {
			e := r.s.ledger[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (r *LedgerRepo) ListByTransaction(transactionID string) ([]*entity.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.LedgerEntry
	for i := range r.s.ledger {
		if r.s.ledger[i].TransactionID == transactionID {
			e := r.s.ledger[i]
			list = append(list, &e)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *LedgerRepo) List(itemID, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var filtered []entity.LedgerEntry
	for _, e := range r.s.ledger {
		if e.ItemID != itemID || e.WarehouseID != warehouseID {
			continue
		}
		if from != nil && e.PostingDate.Before(*from) {
			continue
		}
		if to != nil && e.PostingDate.After(*to) {
			continue
		}
		filtered = append(filtered, e)
	}
	sortByPosting(filtered)
	total := len(filtered)

	var page []*entity.LedgerEntry
	for i := offset; i < len(filtered) && len(page) < limit; i++ {
		e := filtered[i]
		page = append(page, &e)
	}
	return page, total, nil
}

func (r *LedgerRepo) OpeningBalance(itemID, warehouseID string, before time.Time) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var last *entity.LedgerEntry
	for i := range r.s.ledger {
		e := r.s.ledger[i]
		if e.ItemID != itemID || e.WarehouseID != warehouseID || !e.PostingDate.Before(before) {
			continue
		}
		if last == nil || postedBefore(*last, e) {
			last = &e
		}
	}
	if last == nil {
		return decimal.Zero, nil
	}
	return last.QtyAfterTransaction, nil
}

// StockRepo repositorio del agregado en memoria.
type StockRepo struct{ s *Store }

func (r *StockRepo) Get(itemID, warehouseID string) (*entity.ItemWarehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if st, ok := r.s.stocks[stockKey(itemID, warehouseID)]; ok {
		return &st, nil
	}
	return &entity.ItemWarehouse{ItemID: itemID, WarehouseID: warehouseID, CurrentStock: decimal.Zero}, nil
}

// GetForUpdate en memoria no bloquea fila: la serialización la da txMu del Run.
func (r *StockRepo) GetForUpdate(itemID, warehouseID string) (*entity.ItemWarehouse, error) {
	return r.Get(itemID, warehouseID)
}

func (r *StockRepo) Upsert(st *entity.ItemWarehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stocks[stockKey(st.ItemID, st.WarehouseID)] = *st
	return nil
}

func (r *StockRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.ItemWarehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.ItemWarehouse
	for _, st := range r.s.stocks {
		if st.WarehouseID == warehouseID {
			st := st
			list = append(list, &st)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ItemID < list[j].ItemID })
	return paginate(list, limit, offset), nil
}

// ItemLocationRepo repositorio de existencias por ubicación en memoria.
type ItemLocationRepo struct{ s *Store }

func (r *ItemLocationRepo) Get(itemID, warehouseID, locationID string) (*entity.ItemLocationStock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if st, ok := r.s.locationStock[locationKey(itemID, warehouseID, locationID)]; ok {
		return &st, nil
	}
	return nil, nil
}

func (r *ItemLocationRepo) Upsert(st *entity.ItemLocationStock) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.locationStock[locationKey(st.ItemID, st.WarehouseID, st.LocationID)] = *st
	return nil
}

func (r *ItemLocationRepo) ListFIFO(itemID, warehouseID string) ([]*entity.ItemLocationStock, error) {
	rows, err := r.ListByWarehouse(itemID, warehouseID)
	if err != nil {
		return nil, err
	}
	var list []*entity.ItemLocationStock
	for _, row := range rows {
		if row.QtyOnHand.GreaterThan(decimal.Zero) {
			list = append(list, row)
		}
	}
	return list, nil
}

func (r *ItemLocationRepo) ListByWarehouse(itemID, warehouseID string) ([]*entity.ItemLocationStock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.ItemLocationStock
	for _, st := range r.s.locationStock {
		if st.ItemID == itemID && st.WarehouseID == warehouseID {
			st := st
			list = append(list, &st)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].StockedAt.Equal(list[j].StockedAt) {
			return list[i].StockedAt.Before(list[j].StockedAt)
		}
		return list[i].LocationID < list[j].LocationID
	})
	return list, nil
}

// StockTransactionRepo repositorio de transacciones en memoria.
type StockTransactionRepo struct{ s *Store }

func (r *StockTransactionRepo) Create(tx *entity.StockTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	r.s.transactions[tx.ID] = *tx
	return nil
}

func (r *StockTransactionRepo) CreateItem(item *entity.StockTransactionItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.s.txItems = append(r.s.txItems, *item)
	return nil
}

func (r *StockTransactionRepo) GetByID(id string) (*entity.StockTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if tx, ok := r.s.transactions[id]; ok {
		return &tx, nil
	}
	return nil, nil
}

func (r *StockTransactionRepo) ListItems(transactionID string) ([]*entity.StockTransactionItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.StockTransactionItem
	for i := range r.s.txItems {
		if r.s.txItems[i].TransactionID == transactionID {
			it := r.s.txItems[i]
			list = append(list, &it)
		}
	}
	return list, nil
}

// StockRequestRepo repositorio de solicitudes de traslado en memoria.
type StockRequestRepo struct{ s *Store }

func (r *StockRequestRepo) Create(req *entity.StockRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.requests[req.ID] = *req
	return nil
}

func (r *StockRequestRepo) GetByID(id string) (*entity.StockRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if req, ok := r.s.requests[id]; ok {
		return &req, nil
	}
	return nil, nil
}

func (r *StockRequestRepo) UpdateStatus(id, status string, changedAt time.Time, transactionID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return domain.ErrNotFound
	}
	req.Status = status
	req.StatusChangedAt = changedAt
	if transactionID != "" {
		req.TransactionID = transactionID
	}
	r.s.requests[id] = req
	return nil
}

// TransformationOrderRepo repositorio de órdenes de transformación en memoria.
type TransformationOrderRepo struct{ s *Store }

func (r *TransformationOrderRepo) Create(order *entity.TransformationOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orders[order.ID] = *order
	return nil
}

func (r *TransformationOrderRepo) GetByID(id string) (*entity.TransformationOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if order, ok := r.s.orders[id]; ok {
		return &order, nil
	}
	return nil, nil
}

func (r *TransformationOrderRepo) UpdateStatus(id, status string, changedAt time.Time, outTxID, inTxID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order, ok := r.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	order.Status = status
	order.StatusChangedAt = changedAt
	if outTxID != "" {
		order.OutTransactionID = outTxID
	}
	if inTxID != "" {
		order.InTransactionID = inTxID
	}
	r.s.orders[id] = order
	return nil
}

// PurchaseReceiptRepo repositorio de recepciones en memoria.
type PurchaseReceiptRepo struct{ s *Store }

func (r *PurchaseReceiptRepo) Create(receipt *entity.PurchaseReceipt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.receipts[receipt.ID] = *receipt
	return nil
}

func (r *PurchaseReceiptRepo) GetByID(id string) (*entity.PurchaseReceipt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if receipt, ok := r.s.receipts[id]; ok {
		return &receipt, nil
	}
	return nil, nil
}

func (r *PurchaseReceiptRepo) UpdateStatus(id, status string, changedAt time.Time, transactionID, reversalTxID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	receipt, ok := r.s.receipts[id]
	if !ok {
		return domain.ErrNotFound
	}
	receipt.Status = status
	receipt.StatusChangedAt = changedAt
	if transactionID != "" {
		receipt.TransactionID = transactionID
	}
	if reversalTxID != "" {
		receipt.ReversalTransactionID = reversalTxID
	}
	r.s.receipts[id] = receipt
	return nil
}

func paginate[T any](list []*T, limit, offset int) []*T {
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
