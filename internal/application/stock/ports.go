package stock

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es lo que hace atómico el par swap de stock +
// registro de movimiento: o ambos quedan, o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		skuRepo repository.SKURepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
