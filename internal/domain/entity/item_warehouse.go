package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemWarehouse es el agregado materializado de stock por (item, bodega).
// CurrentStock refleja el último saldo del kardex y la suma de las ubicaciones;
// solo lo muta el orquestador, en la misma transacción que el asiento.
// Esta fila es además el punto de serialización (SELECT ... FOR UPDATE).
type ItemWarehouse struct {
	ItemID            string
	WarehouseID       string
	CurrentStock      decimal.Decimal
	DefaultLocationID string
	UpdatedAt         time.Time
}

// ItemLocationStock es la existencia por (item, bodega, ubicación).
// StockedAt se refresca en cada depósito: el consumo FIFO ordena por
// (StockedAt ASC, LocationID ASC), la ubicación repuesta hace más tiempo primero.
type ItemLocationStock struct {
	ItemID      string
	WarehouseID string
	LocationID  string
	QtyOnHand   decimal.Decimal
	StockedAt   time.Time
	UpdatedAt   time.Time
}
