package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// SupplierUseCase CRUD de proveedores (registro simple, sin invariantes cruzadas).
type SupplierUseCase struct {
	supplierRepo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(supplierRepo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{supplierRepo: supplierRepo}
}

// SupplierInput datos de alta/edición de proveedor.
type SupplierInput struct {
	Name        string
	ContactName string
	Email       string
	Phone       string
	TaxID       string
}

// CreateSupplier registra un proveedor del tenant.
func (uc *SupplierUseCase) CreateSupplier(ctx context.Context, tenantID string, input SupplierInput) (*entity.Supplier, error) {
	if tenantID == "" || input.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Name:        input.Name,
		ContactName: input.ContactName,
		Email:       input.Email,
		Phone:       input.Phone,
		TaxID:       input.TaxID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// UpdateSupplier edita los datos de contacto del proveedor.
func (uc *SupplierUseCase) UpdateSupplier(ctx context.Context, tenantID, supplierID string, input SupplierInput) (*entity.Supplier, error) {
	supplier, err := uc.supplierRepo.GetByID(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	if input.Name != "" {
		supplier.Name = input.Name
	}
	supplier.ContactName = input.ContactName
	supplier.Email = input.Email
	supplier.Phone = input.Phone
	supplier.TaxID = input.TaxID
	supplier.UpdatedAt = time.Now()
	if err := uc.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// DisableSupplier deshabilita el proveedor (suave; las órdenes existentes lo siguen referenciando).
func (uc *SupplierUseCase) DisableSupplier(ctx context.Context, tenantID, supplierID string) error {
	supplier, err := uc.supplierRepo.GetByID(ctx, tenantID, supplierID)
	if err != nil {
		return err
	}
	if supplier == nil {
		return domain.ErrNotFound
	}
	supplier.IsActive = false
	supplier.UpdatedAt = time.Now()
	return uc.supplierRepo.Update(ctx, supplier)
}

// GetSupplier devuelve un proveedor del tenant.
func (uc *SupplierUseCase) GetSupplier(ctx context.Context, tenantID, supplierID string) (*entity.Supplier, error) {
	supplier, err := uc.supplierRepo.GetByID(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	return supplier, nil
}

// ListSuppliers lista los proveedores del tenant.
func (uc *SupplierUseCase) ListSuppliers(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Supplier, error) {
	return uc.supplierRepo.ListByTenant(ctx, tenantID, limit, offset)
}
