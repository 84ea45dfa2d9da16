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

// transformationMachine tabla de transiciones de la orden de transformación.
func transformationMachine() *lifecycle.Machine[string] {
	return lifecycle.NewMachine("transformation_order", map[string][]string{
		entity.StatusDraft:     {entity.StatusPreparing, entity.StatusCancelled},
		entity.StatusPreparing: {entity.StatusCompleted, entity.StatusCancelled},
	})
}

// TransformationUseCase gestiona órdenes de manufactura/transformación.
// PREPARING valida que alcancen los insumos; COMPLETED postea el OUT de
// insumos y el IN de productos en una sola transacción de BD: si cualquiera
// de los dos falla, ninguno queda escrito.
type TransformationUseCase struct {
	txRunner      inventory.TxRunner
	orchestrator  *inventory.Orchestrator
	repo          repository.TransformationOrderRepository
	warehouseRepo repository.WarehouseRepository
	machine       *lifecycle.Machine[string]
	met           *metrics.Metrics
}

// NewTransformationUseCase construye el caso de uso.
func NewTransformationUseCase(
	txRunner inventory.TxRunner,
	orchestrator *inventory.Orchestrator,
	repo repository.TransformationOrderRepository,
	warehouseRepo repository.WarehouseRepository,
	met *metrics.Metrics,
) *TransformationUseCase {
	return &TransformationUseCase{
		txRunner:      txRunner,
		orchestrator:  orchestrator,
		repo:          repo,
		warehouseRepo: warehouseRepo,
		machine:       transformationMachine(),
		met:           met,
	}
}

// Create registra la orden en DRAFT con sus insumos y productos.
func (uc *TransformationUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateTransformationRequest) (*entity.TransformationOrder, error) {
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
	inputs, err := fromItemRequests(id, entity.DirectionInput, in.Inputs)
	if err != nil {
		return nil, err
	}
	outputs, err := fromItemRequests(id, entity.DirectionOutput, in.Outputs)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	order := &entity.TransformationOrder{
		ID:              id,
		CompanyID:       companyID,
		WarehouseID:     in.WarehouseID,
		Status:          entity.StatusDraft,
		StatusChangedAt: now,
		Notes:           in.Notes,
		Inputs:          inputs,
		Outputs:         outputs,
		CreatedAt:       now,
		CreatedBy:       userID,
	}
	if err := uc.repo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetByID retorna la orden con sus líneas.
func (uc *TransformationUseCase) GetByID(ctx context.Context, companyID, id string) (*entity.TransformationOrder, error) {
	order, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil || order.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// Transition aplica la transición validada por la máquina de estados.
func (uc *TransformationUseCase) Transition(ctx context.Context, companyID, userID, id, target string) (*entity.TransformationOrder, error) {
	order, err := uc.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := uc.machine.Transition(order.Status, target); err != nil {
		uc.met.InvalidTransitions.Inc()
		return nil, err
	}

	now := time.Now()
	switch target {
	case entity.StatusPreparing:
		// Liberar a preparación: valida (sin postear) que alcancen los insumos.
		if _, err := uc.orchestrator.Prepare(ctx, uc.outEvent(order, userID)); err != nil {
			return nil, err
		}
		if err := uc.repo.UpdateStatus(id, target, now, "", ""); err != nil {
			return nil, err
		}

	case entity.StatusCompleted:
		outID, inID, err := uc.execute(ctx, order, userID, now)
		if err != nil {
			return nil, err
		}
		order.OutTransactionID, order.InTransactionID = outID, inID

	default:
		if err := uc.repo.UpdateStatus(id, target, now, "", ""); err != nil {
			return nil, err
		}
	}

	order.Status = target
	order.StatusChangedAt = now
	return order, nil
}

// execute postea el consumo de insumos y la producción de salidas como una
// sola unidad atómica, junto con el cambio de estado del documento.
func (uc *TransformationUseCase) execute(ctx context.Context, order *entity.TransformationOrder, userID string, now time.Time) (outID, inID string, err error) {
	outInput := uc.outEvent(order, userID)
	inInput := uc.inEvent(order, userID)

	outLines, err := uc.orchestrator.Prepare(ctx, outInput)
	if err != nil {
		return "", "", err
	}
	inLines, err := uc.orchestrator.Prepare(ctx, inInput)
	if err != nil {
		return "", "", err
	}

	err = uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		outID, err = uc.orchestrator.ExecuteInTx(r, outInput, outLines, now)
		if err != nil {
			return err
		}
		inID, err = uc.orchestrator.ExecuteInTx(r, inInput, inLines, now)
		if err != nil {
			return err
		}
		return r.Transformations.UpdateStatus(order.ID, entity.StatusCompleted, now, outID, inID)
	})
	if err != nil {
		return "", "", err
	}
	return outID, inID, nil
}

func (uc *TransformationUseCase) outEvent(order *entity.TransformationOrder, userID string) inventory.TransactionInput {
	return inventory.TransactionInput{
		CompanyID:     order.CompanyID,
		UserID:        userID,
		WarehouseID:   order.WarehouseID,
		Type:          entity.TransactionTypeOUT,
		VoucherType:   entity.VoucherTypeTransformation,
		VoucherNumber: order.ID,
		ReferenceType: "transformation_order",
		ReferenceID:   order.ID,
		Lines:         toLineInputs(order.Inputs),
	}
}

func (uc *TransformationUseCase) inEvent(order *entity.TransformationOrder, userID string) inventory.TransactionInput {
	return inventory.TransactionInput{
		CompanyID:     order.CompanyID,
		UserID:        userID,
		WarehouseID:   order.WarehouseID,
		Type:          entity.TransactionTypeIN,
		VoucherType:   entity.VoucherTypeTransformation,
		VoucherNumber: order.ID,
		ReferenceType: "transformation_order",
		ReferenceID:   order.ID,
		Lines:         toLineInputs(order.Outputs),
	}
}
