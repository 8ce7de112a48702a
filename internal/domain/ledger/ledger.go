// Package ledger lleva, por número telefónico, el registro de fechas vistas como
// activación y/o desactivación y elige la fecha de activación real.
package ledger

import (
	"time"

	"github.com/jhoicas/activacion-real/internal/domain"
	"github.com/jhoicas/activacion-real/internal/domain/entity"
)

// DateLedger registro de fechas de un número. Los flags de una fecha solo crecen;
// cada (fecha, rol) puede marcarse una única vez.
type DateLedger struct {
	phoneNumber string
	dates       map[time.Time]Flag
	records     int
}

// New crea el registro vacío de un número.
func New(phoneNumber string) *DateLedger {
	return &DateLedger{
		phoneNumber: phoneNumber,
		dates:       make(map[time.Time]Flag),
	}
}

// PhoneNumber número al que pertenece el registro.
func (l *DateLedger) PhoneNumber() string { return l.phoneNumber }

// DistinctDates cantidad de fechas distintas vistas.
func (l *DateLedger) DistinctDates() int { return len(l.dates) }

// Records cantidad de registros ingresados con AddRecord.
func (l *DateLedger) Records() int { return l.records }

// Flag devuelve los roles con que se vio la fecha (FlagNone si nunca).
func (l *DateLedger) Flag(date time.Time) Flag { return l.dates[dayKey(date)] }

// RecordDate marca date con el rol indicado. Si el rol ya estaba marcado para esa
// fecha devuelve *domain.DuplicateDateError.
func (l *DateLedger) RecordDate(date time.Time, role Role) error {
	key := dayKey(date)
	current, ok := l.dates[key]
	if !ok {
		l.dates[key] = role.Flag()
		return nil
	}
	if current.Has(role.Flag()) {
		return &domain.DuplicateDateError{PhoneNumber: l.phoneNumber, Date: key, Role: role.String()}
	}
	l.dates[key] = current | role.Flag()
	return nil
}

// AddRecord registra las dos fechas de una fila; las fechas nil se ignoran.
func (l *DateLedger) AddRecord(rec entity.ActivationRecord) error {
	if rec.ActivationDate != nil {
		if err := l.RecordDate(*rec.ActivationDate, RoleStart); err != nil {
			return err
		}
	}
	if rec.DeactivationDate != nil {
		if err := l.RecordDate(*rec.DeactivationDate, RoleEnd); err != nil {
			return err
		}
	}
	l.records++
	return nil
}

// FindUnmatchedStart devuelve la mayor fecha vista solo como activación.
// ok=false cuando todas las activaciones coinciden con una desactivación:
// es un resultado válido (el número no tiene activación vigente).
func (l *DateLedger) FindUnmatchedStart() (latest time.Time, ok bool) {
	for date, flag := range l.dates {
		if flag != FlagStarted {
			continue
		}
		if !ok || date.After(latest) {
			latest, ok = date, true
		}
	}
	return latest, ok
}

// Result arma la fila de salida del número.
func (l *DateLedger) Result() entity.ActivationResult {
	res := entity.ActivationResult{PhoneNumber: l.phoneNumber}
	if date, ok := l.FindUnmatchedStart(); ok {
		res.RealActivationDate = &date
	}
	return res
}

// dayKey normaliza a medianoche UTC para que la misma fecha calendario
// sea siempre la misma clave del mapa.
func dayKey(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
