package documents

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/lifecycle"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/metrics"
)

// receiptMachine tabla de transiciones de la recepción de compra.
// REVERSED es el único estado alcanzable después de POSTED: una recepción
// contabilizada no se cancela, se reversa.
func receiptMachine() *lifecycle.Machine[string] {
	return lifecycle.NewMachine("purchase_receipt", map[string][]string{
		entity.StatusDraft:  {entity.StatusPosted, entity.StatusCancelled},
		entity.StatusPosted: {entity.StatusReversed},
	})
}

// ReceiptUseCase gestiona recepciones de compra: POSTED registra el IN de la
// mercancía recibida y REVERSED registra el OUT contrario referenciando la
// transacción original.
type ReceiptUseCase struct {
	txRunner      inventory.TxRunner
	orchestrator  *inventory.Orchestrator
	repo          repository.PurchaseReceiptRepository
	warehouseRepo repository.WarehouseRepository
	machine       *lifecycle.Machine[string]
	met           *metrics.Metrics
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	txRunner inventory.TxRunner,
	orchestrator *inventory.Orchestrator,
	repo repository.PurchaseReceiptRepository,
	warehouseRepo repository.WarehouseRepository,
	met *metrics.Metrics,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		txRunner:      txRunner,
		orchestrator:  orchestrator,
		repo:          repo,
		warehouseRepo: warehouseRepo,
		machine:       receiptMachine(),
		met:           met,
	}
}

// Create registra la recepción en DRAFT.
func (uc *ReceiptUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateReceiptRequest) (*entity.PurchaseReceipt, error) {
	if in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil || wh.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}

	id := uuid.New().String()
	items, err := fromItemRequests(id, "", in.Items)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	receipt := &entity.PurchaseReceipt{
		ID:              id,
		CompanyID:       companyID,
		WarehouseID:     in.WarehouseID,
		SupplierRef:     in.SupplierRef,
		Status:          entity.StatusDraft,
		StatusChangedAt: now,
		Notes:           in.Notes,
		Items:           items,
		CreatedAt:       now,
		CreatedBy:       userID,
	}
	if err := uc.repo.Create(receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// GetByID retorna la recepción con sus líneas.
func (uc *ReceiptUseCase) GetByID(ctx context.Context, companyID, id string) (*entity.PurchaseReceipt, error) {
	receipt, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if receipt == nil || receipt.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return receipt, nil
}

// Transition aplica la transición validada por la máquina de estados.
func (uc *ReceiptUseCase) Transition(ctx context.Context, companyID, userID, id, target string) (*entity.PurchaseReceipt, error) {
	receipt, err := uc.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := uc.machine.Transition(receipt.Status, target); err != nil {
		uc.met.InvalidTransitions.Inc()
		return nil, err
	}

	now := time.Now()
	switch target {
	case entity.StatusPosted:
		txID, err := uc.post(ctx, receipt, userID, now)
		if err != nil {
			return nil, err
		}
		receipt.TransactionID = txID

	case entity.StatusReversed:
		txID, err := uc.reverse(ctx, receipt, userID, now)
		if err != nil {
			return nil, err
		}
		receipt.ReversalTransactionID = txID

	default:
		if err := uc.repo.UpdateStatus(id, target, now, "", ""); err != nil {
			return nil, err
		}
	}

	receipt.Status = target
	receipt.StatusChangedAt = now
	return receipt, nil
}

// post registra el IN de compra y el cambio de estado en una transacción.
func (uc *ReceiptUseCase) post(ctx context.Context, receipt *entity.PurchaseReceipt, userID string, now time.Time) (txID string, err error) {
	input := inventory.TransactionInput{
		CompanyID:     receipt.CompanyID,
		UserID:        userID,
		WarehouseID:   receipt.WarehouseID,
		Type:          entity.TransactionTypeIN,
		VoucherType:   entity.VoucherTypePurchase,
		VoucherNumber: receipt.ID,
		ReferenceType: "purchase_receipt",
		ReferenceID:   receipt.ID,
		Lines:         toLineInputs(receipt.Items),
	}
	lines, err := uc.orchestrator.Prepare(ctx, input)
	if err != nil {
		return "", err
	}
	err = uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		txID, err = uc.orchestrator.ExecuteInTx(r, input, lines, now)
		if err != nil {
			return err
		}
		return r.Receipts.UpdateStatus(receipt.ID, entity.StatusPosted, now, txID, "")
	})
	if err != nil {
		return "", err
	}
	return txID, nil
}

// reverse registra el OUT contrario a la recepción ya contabilizada. No se
// permite negativo: si parte de la mercancía ya salió, la reversa falla.
func (uc *ReceiptUseCase) reverse(ctx context.Context, receipt *entity.PurchaseReceipt, userID string, now time.Time) (txID string, err error) {
	input := inventory.TransactionInput{
		CompanyID:     receipt.CompanyID,
		UserID:        userID,
		WarehouseID:   receipt.WarehouseID,
		Type:          entity.TransactionTypeOUT,
		VoucherType:   entity.VoucherTypeReversal,
		VoucherNumber: receipt.ID,
		ReferenceType: "stock_transaction",
		ReferenceID:   receipt.TransactionID,
		Lines:         toLineInputs(receipt.Items),
	}
	lines, err := uc.orchestrator.Prepare(ctx, input)
	if err != nil {
		return "", err
	}
	err = uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		txID, err = uc.orchestrator.ExecuteInTx(r, input, lines, now)
		if err != nil {
			return err
		}
		return r.Receipts.UpdateStatus(receipt.ID, entity.StatusReversed, now, receipt.TransactionID, txID)
	})
	if err != nil {
		return "", err
	}
	return txID, nil
}
