package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// PackagingUseCase administra el catálogo de empaques por item.
// Regla dura: el factor de conversión es inmutable una vez que el empaque
// tiene movimientos (usage_count > 0); cambiarlo corrompería el histórico.
type PackagingUseCase struct {
	itemRepo      repository.ItemRepository
	packagingRepo repository.PackagingRepository
}

// NewPackagingUseCase construye el caso de uso.
func NewPackagingUseCase(itemRepo repository.ItemRepository, packagingRepo repository.PackagingRepository) *PackagingUseCase {
	return &PackagingUseCase{itemRepo: itemRepo, packagingRepo: packagingRepo}
}

// Create registra un empaque nuevo para el item.
func (uc *PackagingUseCase) Create(ctx context.Context, companyID, itemID string, in dto.CreatePackagingRequest) (*entity.Packaging, error) {
	if in.PackType == "" || !in.ConversionFactor.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.IsBase && !in.ConversionFactor.Equal(decimal.NewFromInt(1)) {
		return nil, domain.ErrInvalidInput
	}

	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	if in.IsBase {
		existing, err := uc.packagingRepo.GetBase(itemID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			// Exactamente un empaque base por item.
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	pkg := &entity.Packaging{
		ID:               uuid.New().String(),
		ItemID:           itemID,
		PackType:         in.PackType,
		Label:            in.Label,
		ConversionFactor: in.ConversionFactor,
		IsBase:           in.IsBase,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.packagingRepo.Create(pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// ListByItem lista los empaques del item.
func (uc *PackagingUseCase) ListByItem(ctx context.Context, companyID, itemID string) ([]*entity.Packaging, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return uc.packagingRepo.ListByItem(itemID)
}

// Update modifica etiqueta/tipo/estado; el factor solo si el empaque no tiene
// movimientos todavía.
func (uc *PackagingUseCase) Update(ctx context.Context, companyID, packagingID string, in dto.UpdatePackagingRequest) (*entity.Packaging, error) {
	pkg, err := uc.packagingRepo.GetByID(packagingID)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, domain.ErrNotFound
	}
	item, err := uc.itemRepo.GetByID(pkg.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	if in.ConversionFactor != nil {
		if pkg.UsageCount > 0 {
			return nil, domain.ErrPackagingInUse
		}
		if !in.ConversionFactor.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if pkg.IsBase && !in.ConversionFactor.Equal(decimal.NewFromInt(1)) {
			return nil, domain.ErrInvalidInput
		}
		pkg.ConversionFactor = *in.ConversionFactor
	}
	if in.PackType != nil {
		pkg.PackType = *in.PackType
	}
	if in.Label != nil {
		pkg.Label = *in.Label
	}
	if in.IsActive != nil {
		if pkg.IsBase && !*in.IsActive {
			// El empaque base no se desactiva; es el fallback de normalización.
			return nil, domain.ErrInvalidInput
		}
		pkg.IsActive = *in.IsActive
	}
	pkg.UpdatedAt = time.Now()
	if err := uc.packagingRepo.Update(pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}
