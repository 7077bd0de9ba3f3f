package domain

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// RequestContext identifica al usuario que ejecuta la operación.
// Se pasa explícitamente a cada caso de uso; no hay estado de sesión ambiente.
type RequestContext struct {
	UserID string
	Role   string
}

// IsAdmin indica si el actor tiene rol administrador.
func (r RequestContext) IsAdmin() bool {
	return r.Role == entity.RoleAdmin
}
