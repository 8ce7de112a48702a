package activation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/activacion-real/internal/domain"
	"github.com/jhoicas/activacion-real/internal/domain/entity"
)

// Codificaciones de entrada soportadas.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin1"
)

// Columnas del archivo de entrada.
const (
	ColPhoneNumber      = "PHONE_NUMBER"
	ColActivationDate   = "ACTIVATION_DATE"
	ColDeactivationDate = "DEACTIVATION_DATE"
)

// IngestOptions opciones de lectura del CSV de entrada.
type IngestOptions struct {
	HasHeader bool
	Encoding  string // utf-8 (por defecto) | latin1
	Workers   int    // >1 reparte los registros entre goroutines por número
}

// RecordReader lee filas del CSV de entrada y las convierte en ActivationRecord.
type RecordReader struct {
	csv        *csv.Reader
	skipHeader bool
	started    bool
}

// NewRecordReader construye el lector. Devuelve domain.ErrInvalidInput si la codificación no es soportada.
func NewRecordReader(r io.Reader, opts IngestOptions) (*RecordReader, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Encoding)) {
	case "", EncodingUTF8, "utf8":
	case EncodingLatin1, "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("%w: codificación %q no soportada", domain.ErrInvalidInput, opts.Encoding)
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &RecordReader{csv: cr, skipHeader: opts.HasHeader}, nil
}

// Next devuelve el siguiente registro o io.EOF al terminar.
func (rr *RecordReader) Next() (entity.ActivationRecord, error) {
	if rr.skipHeader {
		rr.skipHeader = false
		if _, err := rr.read(); err != nil {
			return entity.ActivationRecord{}, err
		}
	}
	row, err := rr.read()
	if err != nil {
		return entity.ActivationRecord{}, err
	}
	line, _ := rr.csv.FieldPos(0)
	return parseRecord(row, line)
}

func (rr *RecordReader) read() ([]string, error) {
	row, err := rr.csv.Read()
	if err == nil && !rr.started {
		rr.started = true
		// BOM UTF-8 al inicio del archivo (Excel lo agrega al exportar CSV).
		row[0] = strings.TrimPrefix(row[0], "\uFEFF")
	}
	if err == nil || errors.Is(err, io.EOF) {
		return row, err
	}
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return nil, &domain.ParseError{
			Line:  pe.StartLine,
			Field: "CSV",
			Err:   fmt.Errorf("%w: %v", domain.ErrInvalidInput, pe.Err),
		}
	}
	return nil, fmt.Errorf("leer CSV: %w", err)
}

func parseRecord(row []string, line int) (entity.ActivationRecord, error) {
	rec := entity.ActivationRecord{Line: line, PhoneNumber: field(row, 0)}
	if rec.PhoneNumber == "" {
		return rec, &domain.ParseError{Line: line, Field: ColPhoneNumber, Err: domain.ErrInvalidInput}
	}
	var err error
	if rec.ActivationDate, err = parseDate(field(row, 1), line, ColActivationDate); err != nil {
		return rec, err
	}
	if rec.DeactivationDate, err = parseDate(field(row, 2), line, ColDeactivationDate); err != nil {
		return rec, err
	}
	return rec, nil
}

func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseDate interpreta YYYY-MM-DD; vacío es nil (sin fecha).
func parseDate(s string, line int, col string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return nil, &domain.ParseError{Line: line, Field: col, Value: s, Err: domain.ErrInvalidDate}
	}
	return &d, nil
}

// FormatDate formatea una fecha de resultado; nil es cadena vacía.
func FormatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(domain.DateLayout)
}
