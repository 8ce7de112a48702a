package entity

import "time"

// ActivationResult fila de salida: fecha de activación real de un número.
// RealActivationDate es nil cuando todas sus activaciones tienen desactivación.
type ActivationResult struct {
	PhoneNumber        string
	RealActivationDate *time.Time
}

// Resolved indica si se encontró una fecha de activación real.
func (r ActivationResult) Resolved() bool {
	return r.RealActivationDate != nil
}
