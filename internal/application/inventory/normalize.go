package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	domaininv "github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// LineInput línea de un evento de negocio en unidades del empaque elegido.
type LineInput struct {
	ItemID      string
	PackagingID string // vacío = empaque base del item
	InputQty    decimal.Decimal
	UnitCost    decimal.Decimal
}

// NormalizedLine línea ya convertida a unidades base, con la trazabilidad del
// empaque y el factor aplicados.
type NormalizedLine struct {
	ItemID           string
	PackagingID      string
	InputQty         decimal.Decimal
	ConversionFactor decimal.Decimal
	NormalizedQty    decimal.Decimal
	UnitCost         decimal.Decimal
}

// NormalizeUseCase resuelve empaques y convierte cantidades a unidades base.
// Sin efectos secundarios: ventas, compras, POS y transformaciones lo invocan
// antes de postear.
type NormalizeUseCase struct {
	itemRepo      repository.ItemRepository
	packagingRepo repository.PackagingRepository
}

// NewNormalizeUseCase construye el caso de uso.
func NewNormalizeUseCase(itemRepo repository.ItemRepository, packagingRepo repository.PackagingRepository) *NormalizeUseCase {
	return &NormalizeUseCase{itemRepo: itemRepo, packagingRepo: packagingRepo}
}

// NormalizeLines normaliza todas las líneas de un evento; cualquier error en
// una línea aborta el lote completo.
func (uc *NormalizeUseCase) NormalizeLines(ctx context.Context, companyID string, lines []LineInput) ([]NormalizedLine, error) {
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	out := make([]NormalizedLine, 0, len(lines))
	for _, line := range lines {
		normalized, err := uc.normalizeLine(companyID, line)
		if err != nil {
			return nil, err
		}
		out = append(out, normalized)
	}
	return out, nil
}

func (uc *NormalizeUseCase) normalizeLine(companyID string, line LineInput) (NormalizedLine, error) {
	var zero NormalizedLine
	if line.ItemID == "" {
		return zero, domain.ErrInvalidInput
	}

	item, err := uc.itemRepo.GetByID(line.ItemID)
	if err != nil {
		return zero, err
	}
	if item == nil || !item.IsActive {
		return zero, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return zero, domain.ErrForbidden
	}

	pkg, err := uc.resolvePackaging(line.ItemID, line.PackagingID)
	if err != nil {
		return zero, err
	}

	normalizedQty, err := domaininv.Normalize(pkg.ConversionFactor, line.InputQty)
	if err != nil {
		return zero, err
	}

	return NormalizedLine{
		ItemID:           line.ItemID,
		PackagingID:      pkg.ID,
		InputQty:         line.InputQty,
		ConversionFactor: pkg.ConversionFactor,
		NormalizedQty:    normalizedQty,
		UnitCost:         line.UnitCost,
	}, nil
}

// resolvePackaging: sin empaque -> base del item (ErrConfiguration si no hay);
// con empaque -> debe pertenecer al item y estar activo.
func (uc *NormalizeUseCase) resolvePackaging(itemID, packagingID string) (pkg *packagingResolved, err error) {
	if packagingID == "" {
		base, err := uc.packagingRepo.GetBase(itemID)
		if err != nil {
			return nil, err
		}
		if base == nil {
			return nil, domain.ErrConfiguration
		}
		return &packagingResolved{ID: base.ID, ConversionFactor: base.ConversionFactor}, nil
	}
	p, err := uc.packagingRepo.GetByID(packagingID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.ItemID != itemID || !p.IsActive {
		return nil, domain.ErrNotFound
	}
	return &packagingResolved{ID: p.ID, ConversionFactor: p.ConversionFactor}, nil
}

type packagingResolved struct {
	ID               string
	ConversionFactor decimal.Decimal
}
