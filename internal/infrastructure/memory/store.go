// Package memory implementa los puertos de repositorio sobre mapas en memoria,
// con semántica transaccional por snapshot. Lo usan los tests de la capa de
// aplicación para ejercitar el motor completo sin PostgreSQL.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Store guarda todo el estado por valor: el snapshot de una transacción es una
// copia de los mapas, y el rollback es restaurarlos.
type Store struct {
	mu sync.Mutex
	// txMu serializa transacciones completas (equivalente al lock de fila de
	// item_warehouse en PostgreSQL, engrosado a todo el store).
	txMu sync.Mutex

	items         map[string]entity.Item
	packagings    map[string]entity.Packaging
	warehouses    map[string]entity.Warehouse
	locations     map[string]entity.Location
	ledger        []entity.LedgerEntry
	nextLedgerID  int64
	stocks        map[string]entity.ItemWarehouse     // item|bodega
	locationStock map[string]entity.ItemLocationStock // item|bodega|ubicación
	transactions  map[string]entity.StockTransaction
	txItems       []entity.StockTransactionItem
	requests      map[string]entity.StockRequest
	orders        map[string]entity.TransformationOrder
	receipts      map[string]entity.PurchaseReceipt
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		items:         map[string]entity.Item{},
		packagings:    map[string]entity.Packaging{},
		warehouses:    map[string]entity.Warehouse{},
		locations:     map[string]entity.Location{},
		nextLedgerID:  1,
		stocks:        map[string]entity.ItemWarehouse{},
		locationStock: map[string]entity.ItemLocationStock{},
		transactions:  map[string]entity.StockTransaction{},
		requests:      map[string]entity.StockRequest{},
		orders:        map[string]entity.TransformationOrder{},
		receipts:      map[string]entity.PurchaseReceipt{},
	}
}

// SeedItem registra un item de catálogo.
func (s *Store) SeedItem(it entity.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[it.ID] = it
}

// SeedPackaging registra un empaque.
func (s *Store) SeedPackaging(p entity.Packaging) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packagings[p.ID] = p
}

// SeedWarehouse registra una bodega.
func (s *Store) SeedWarehouse(w entity.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warehouses[w.ID] = w
}

// SeedLocation registra una ubicación.
func (s *Store) SeedLocation(loc entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[loc.ID] = loc
}

// Repos retorna el juego completo de repositorios sobre este store.
func (s *Store) Repos() inventory.TxRepos {
	return inventory.TxRepos{
		Ledger:          &LedgerRepo{s: s},
		Stock:           &StockRepo{s: s},
		Locations:       &LocationRepo{s: s},
		LocationStock:   &ItemLocationRepo{s: s},
		Transactions:    &StockTransactionRepo{s: s},
		Packagings:      &PackagingRepo{s: s},
		StockRequests:   &StockRequestRepo{s: s},
		Transformations: &TransformationOrderRepo{s: s},
		Receipts:        &PurchaseReceiptRepo{s: s},
	}
}

// Items retorna el repositorio de items.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Warehouses retorna el repositorio de bodegas.
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{s: s} }

var _ inventory.TxRunner = (*Store)(nil)

// Run ejecuta fn con semántica transaccional: toma un snapshot del estado y lo
// restaura si fn falla. txMu serializa transacciones concurrentes.
func (s *Store) Run(ctx context.Context, fn func(r inventory.TxRepos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(s.Repos()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	packagings    map[string]entity.Packaging
	locations     map[string]entity.Location
	ledger        []entity.LedgerEntry
	nextLedgerID  int64
	stocks        map[string]entity.ItemWarehouse
	locationStock map[string]entity.ItemLocationStock
	transactions  map[string]entity.StockTransaction
	txItems       []entity.StockTransactionItem
	requests      map[string]entity.StockRequest
	orders        map[string]entity.TransformationOrder
	receipts      map[string]entity.PurchaseReceipt
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		packagings:    copyMap(s.packagings),
		locations:     copyMap(s.locations),
		ledger:        append([]entity.LedgerEntry(nil), s.ledger...),
		nextLedgerID:  s.nextLedgerID,
		stocks:        copyMap(s.stocks),
		locationStock: copyMap(s.locationStock),
		transactions:  copyMap(s.transactions),
		txItems:       append([]entity.StockTransactionItem(nil), s.txItems...),
		requests:      copyMap(s.requests),
		orders:        copyMap(s.orders),
		receipts:      copyMap(s.receipts),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packagings = snap.packagings
	s.locations = snap.locations
	s.ledger = snap.ledger
	s.nextLedgerID = snap.nextLedgerID
	s.stocks = snap.stocks
	s.locationStock = snap.locationStock
	s.transactions = snap.transactions
	s.txItems = snap.txItems
	s.requests = snap.requests
	s.orders = snap.orders
	s.receipts = snap.receipts
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func stockKey(itemID, warehouseID string) string {
	return itemID + "|" + warehouseID
}

func locationKey(itemID, warehouseID, locationID string) string {
	return itemID + "|" + warehouseID + "|" + locationID
}

// postedBefore compara asientos por la llave de posteo (fecha, hora, id).
func postedBefore(a, b entity.LedgerEntry) bool {
	if !a.PostingDate.Equal(b.PostingDate) {
		return a.PostingDate.Before(b.PostingDate)
	}
	if !a.PostingTime.Equal(b.PostingTime) {
		return a.PostingTime.Before(b.PostingTime)
	}
	return a.ID < b.ID
}

func sortByPosting(entries []entity.LedgerEntry) {
	sort.Slice(entries, func(i, j int) bool { return postedBefore(entries[i], entries[j]) })
}
