package entity

import "time"

// ActivationRecord representa una fila del archivo de entrada.
// Cualquiera de las dos fechas puede ser nil (campo vacío).
type ActivationRecord struct {
	PhoneNumber      string
	ActivationDate   *time.Time
	DeactivationDate *time.Time
	Line             int // línea en el archivo de origen (1 = primera)
}
