package domain

import (
	"errors"
	"fmt"
	"time"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidDate         = errors.New("fecha inválida")
	ErrDuplicateDate       = errors.New("fecha duplicada para el número")
	ErrAggregatorSealed    = errors.New("el agregador ya fue consultado; no admite más registros")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrPersistenceDisabled = errors.New("persistencia deshabilitada")
)

// DateLayout formato de fecha de entrada y salida (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseError describe una fila del CSV que no se pudo interpretar.
// Err es ErrInvalidDate o ErrInvalidInput.
type ParseError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("línea %d, campo %s (%q): %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DuplicateDateError indica que el mismo (número, fecha, rol) apareció dos veces.
// Es fatal: el archivo de entrada está corrupto.
type DuplicateDateError struct {
	PhoneNumber string
	Date        time.Time
	Role        string // "activación" | "desactivación"
}

func (e *DuplicateDateError) Error() string {
	return fmt.Sprintf("número %s: la fecha de %s %s aparece en dos registros",
		e.PhoneNumber, e.Role, e.Date.Format(DateLayout))
}

func (e *DuplicateDateError) Is(target error) bool { return target == ErrDuplicateDate }
