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

// stockRequestMachine tabla de transiciones de la solicitud de traslado.
func stockRequestMachine() *lifecycle.Machine[string] {
	return lifecycle.NewMachine("stock_request", map[string][]string{
		entity.StatusDraft:     {entity.StatusSubmitted, entity.StatusCancelled},
		entity.StatusSubmitted: {entity.StatusFulfilled, entity.StatusCancelled},
	})
}

// StockRequestUseCase gestiona solicitudes de traslado entre bodegas.
// Al entrar a FULFILLED se registra el evento TRANSFER en la misma
// transacción de BD que el cambio de estado.
type StockRequestUseCase struct {
	txRunner      inventory.TxRunner
	orchestrator  *inventory.Orchestrator
	repo          repository.StockRequestRepository
	warehouseRepo repository.WarehouseRepository
	machine       *lifecycle.Machine[string]
	met           *metrics.Metrics
}

// NewStockRequestUseCase construye el caso de uso.
func NewStockRequestUseCase(
	txRunner inventory.TxRunner,
	orchestrator *inventory.Orchestrator,
	repo repository.StockRequestRepository,
	warehouseRepo repository.WarehouseRepository,
	met *metrics.Metrics,
) *StockRequestUseCase {
	return &StockRequestUseCase{
		txRunner:      txRunner,
		orchestrator:  orchestrator,
		repo:          repo,
		warehouseRepo: warehouseRepo,
		machine:       stockRequestMachine(),
		met:           met,
	}
}

// Create registra la solicitud en DRAFT.
func (uc *StockRequestUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateStockRequestRequest) (*entity.StockRequest, error) {
	if in.SourceWarehouseID == "" || in.DestWarehouseID == "" || in.SourceWarehouseID == in.DestWarehouseID {
		return nil, domain.ErrInvalidInput
	}
	for _, whID := range []string{in.SourceWarehouseID, in.DestWarehouseID} {
		wh, err := uc.warehouseRepo.GetByID(whID)
		if err != nil {
			return nil, err
		}
		if wh == nil || wh.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
	}

	id := uuid.New().String()
	items, err := fromItemRequests(id, "", in.Items)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	req := &entity.StockRequest{
		ID:                id,
		CompanyID:         companyID,
		SourceWarehouseID: in.SourceWarehouseID,
		DestWarehouseID:   in.DestWarehouseID,
		Status:            entity.StatusDraft,
		StatusChangedAt:   now,
		Notes:             in.Notes,
		Items:             items,
		CreatedAt:         now,
		CreatedBy:         userID,
	}
	if err := uc.repo.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

// GetByID retorna la solicitud con sus líneas.
func (uc *StockRequestUseCase) GetByID(ctx context.Context, companyID, id string) (*entity.StockRequest, error) {
	req, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil || req.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

// Transition aplica la transición validada por la máquina de estados.
// FULFILLED registra el TRANSFER origen -> destino; el resto solo muta estado.
func (uc *StockRequestUseCase) Transition(ctx context.Context, companyID, userID, id, target string) (*entity.StockRequest, error) {
	req, err := uc.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := uc.machine.Transition(req.Status, target); err != nil {
		uc.met.InvalidTransitions.Inc()
		return nil, err
	}

	now := time.Now()
	if target != entity.StatusFulfilled {
		if err := uc.repo.UpdateStatus(id, target, now, ""); err != nil {
			return nil, err
		}
		req.Status = target
		req.StatusChangedAt = now
		return req, nil
	}

	input := inventory.TransactionInput{
		CompanyID:       companyID,
		UserID:          userID,
		WarehouseID:     req.SourceWarehouseID,
		DestWarehouseID: req.DestWarehouseID,
		Type:            entity.TransactionTypeTRANSFER,
		VoucherType:     entity.VoucherTypeStockRequest,
		VoucherNumber:   req.ID,
		ReferenceType:   "stock_request",
		ReferenceID:     req.ID,
		Lines:           toLineInputs(req.Items),
	}
	lines, err := uc.orchestrator.Prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	var txID string
	err = uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		id2, err := uc.orchestrator.ExecuteInTx(r, input, lines, now)
		if err != nil {
			return err
		}
		txID = id2
		return r.StockRequests.UpdateStatus(id, entity.StatusFulfilled, now, txID)
	})
	if err != nil {
		return nil, err
	}
	req.Status = entity.StatusFulfilled
	req.StatusChangedAt = now
	req.TransactionID = txID
	return req, nil
}
