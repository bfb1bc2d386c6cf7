package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrVersionConflict   = errors.New("conflicto de versión")
	ErrAlreadyTerminal   = errors.New("estado terminal, transición inválida")
)

// InsufficientStockError detalla cantidad solicitada vs disponible.
// errors.Is(err, ErrInsufficientStock) funciona sobre este tipo.
type InsufficientStockError struct {
	SKUID     string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para SKU %s: solicitado %d, disponible %d",
		e.SKUID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// VersionConflictError indica que el reintento optimista agotó sus intentos
// (contención transitoria sobre el mismo SKU).
type VersionConflictError struct {
	SKUID    string
	Attempts int
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("conflicto de versión en SKU %s tras %d intentos", e.SKUID, e.Attempts)
}

func (e *VersionConflictError) Is(target error) bool {
	return target == ErrVersionConflict
}
