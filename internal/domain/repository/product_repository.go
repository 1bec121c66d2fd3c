package repository

import (
	"context"

	"github.com/jhoicas/pos-inventory/internal/domain/entity"
)

// ProductRepository puerto del directorio de productos. El núcleo solo escribe el stock reflejado.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	UpdateStock(ctx context.Context, productID string, stock int64) error
}
