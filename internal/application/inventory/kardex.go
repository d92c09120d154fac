package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
)

// KardexUseCase arma el kardex (historial cronológico de movimientos) de un producto en PDF.
type KardexUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
	generator   KardexGenerator
}

// NewKardexUseCase construye el caso de uso.
func NewKardexUseCase(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	generator KardexGenerator,
) *KardexUseCase {
	return &KardexUseCase{productRepo: productRepo, movRepo: movRepo, generator: generator}
}

// GenerateKardex devuelve los bytes del PDF y el nombre de archivo sugerido.
func (uc *KardexUseCase) GenerateKardex(ctx context.Context, productID int64) ([]byte, string, error) {
	if productID <= 0 {
		return nil, "", domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, "", err
	}
	if product == nil {
		return nil, "", domain.ErrProductNotFound
	}
	movements, err := uc.movRepo.List(ctx, entity.MovementFilter{ProductID: &productID, Ascending: true})
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateKardexPDF(ctx, product, movements)
	if err != nil {
		return nil, "", fmt.Errorf("kardex: %w", err)
	}
	return pdf, fmt.Sprintf("kardex_producto_%d.pdf", productID), nil
}
