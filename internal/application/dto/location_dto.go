package dto

import "time"

// SaveLocationRequest entrada para crear o actualizar una ubicación.
type SaveLocationRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LocationListResponse listado de ubicaciones.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
}
