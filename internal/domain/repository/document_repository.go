package repository

import (
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// StockRequestRepository define el puerto de solicitudes de traslado.
type StockRequestRepository interface {
	Create(req *entity.StockRequest) error
	// GetByID incluye las líneas del documento.
	GetByID(id string) (*entity.StockRequest, error)
	// UpdateStatus persiste el nuevo estado (solo lo invoca la capa de
	// documentos tras validar la transición).
	UpdateStatus(id, status string, changedAt time.Time, transactionID string) error
}

// TransformationOrderRepository define el puerto de órdenes de transformación.
type TransformationOrderRepository interface {
	Create(order *entity.TransformationOrder) error
	GetByID(id string) (*entity.TransformationOrder, error)
	UpdateStatus(id, status string, changedAt time.Time, outTxID, inTxID string) error
}

// PurchaseReceiptRepository define el puerto de recepciones de compra.
type PurchaseReceiptRepository interface {
	Create(receipt *entity.PurchaseReceipt) error
	GetByID(id string) (*entity.PurchaseReceipt, error)
	UpdateStatus(id, status string, changedAt time.Time, transactionID, reversalTxID string) error
}
