package activation_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/activacion-real/internal/application/activation"
	"github.com/jhoicas/activacion-real/internal/domain"
	"github.com/jhoicas/activacion-real/internal/infrastructure/export"
)

const sampleCSV = `PHONE_NUMBER,ACTIVATION_DATE,DEACTIVATION_DATE
0987000001,2016-03-01,2016-05-01
0987000002,2016-02-01,2016-03-01
0987000001,2016-01-01,2016-03-01
0987000001,2016-12-01,
0987000002,2016-03-01,2016-05-01
0987000003,2016-01-01,2016-01-10
0987000001,2016-09-01,2016-12-01
0987000002,2016-05-01,
0987000001,2016-06-01,2016-09-01
`

func ingest(t *testing.T, input string, opts activation.IngestOptions) *activation.Aggregator {
	t.Helper()
	agg := activation.NewAggregator()
	require.NoError(t, agg.Ingest(context.Background(), strings.NewReader(input), opts))
	return agg
}

func resultMap(agg *activation.Aggregator) (order []string, dates map[string]string) {
	dates = map[string]string{}
	for _, r := range agg.Results() {
		order = append(order, r.PhoneNumber)
		dates[r.PhoneNumber] = activation.FormatDate(r.RealActivationDate)
	}
	return order, dates
}

func TestAggregator_OrdenDePrimeraAparicion(t *testing.T) {
	agg := ingest(t, sampleCSV, activation.IngestOptions{HasHeader: true})

	order, dates := resultMap(agg)
	assert.Equal(t, []string{"0987000001", "0987000002", "0987000003"}, order,
		"cada número aparece una sola vez, en orden de primera aparición")
	assert.Equal(t, "2016-06-01", dates["0987000001"])
	assert.Equal(t, "2016-02-01", dates["0987000002"])
	assert.Equal(t, "2016-01-01", dates["0987000003"])
	assert.Equal(t, 9, agg.Records())
	assert.Equal(t, 3, agg.Len())
}

func TestAggregator_EjemploDeReferencia(t *testing.T) {
	agg := ingest(t, "555,2020-01-01,2020-02-01\n555,2020-03-01,\n", activation.IngestOptions{})

	var buf bytes.Buffer
	require.NoError(t, agg.Run(context.Background(), &buf, export.NewCSVWriter()))
	assert.Equal(t, "PHONE_NUMBER,REAL_ACTIVATION_DATE\n555,2020-03-01\n", buf.String())
}

func TestAggregator_TodasLasActivacionesCerradas_CampoVacio(t *testing.T) {
	input := "777,2020-01-01,2020-02-01\n777,2020-02-01,2020-01-01\n"
	agg := ingest(t, input, activation.IngestOptions{})

	results := agg.Results()
	require.Len(t, results, 1)
	assert.Nil(t, results[0].RealActivationDate, "sin activación vigente no es un error")
}

func TestAggregator_FilasCortasYCamposVacios(t *testing.T) {
	input := "111\n111,,2020-02-01\n222, 2020-01-05 ,\n"
	agg := ingest(t, input, activation.IngestOptions{})

	order, dates := resultMap(agg)
	assert.Equal(t, []string{"111", "222"}, order)
	assert.Equal(t, "", dates["111"])
	assert.Equal(t, "2020-01-05", dates["222"])
}

func TestAggregator_SinEncabezadoLaPrimeraFilaEsDato(t *testing.T) {
	agg := ingest(t, "555,2020-01-01,\n", activation.IngestOptions{HasHeader: false})
	assert.Equal(t, 1, agg.Len())

	agg = ingest(t, "555,2020-01-01,\n", activation.IngestOptions{HasHeader: true})
	assert.Equal(t, 0, agg.Len(), "con encabezado la única fila se descarta")
}

func TestAggregator_FechaMalformada_ParseError(t *testing.T) {
	agg := activation.NewAggregator()
	err := agg.Ingest(context.Background(),
		strings.NewReader("h1,h2,h3\n555,2020-01-01,\n555,01/02/2020,\n"),
		activation.IngestOptions{HasHeader: true})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	var pe *domain.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 3, pe.Line)
	assert.Equal(t, activation.ColActivationDate, pe.Field)
	assert.Equal(t, "01/02/2020", pe.Value)
}

func TestAggregator_FormatoConDigitosIncompletos_ParseError(t *testing.T) {
	agg := activation.NewAggregator()
	err := agg.Ingest(context.Background(), strings.NewReader("555,2020-1-01,\n"), activation.IngestOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestAggregator_NumeroVacio_ParseError(t *testing.T) {
	agg := activation.NewAggregator()
	err := agg.Ingest(context.Background(), strings.NewReader(" ,2020-01-01,\n"), activation.IngestOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAggregator_CSVMalformado_ParseError(t *testing.T) {
	agg := activation.NewAggregator()
	err := agg.Ingest(context.Background(), strings.NewReader("555,\"2020-01-01,\n"), activation.IngestOptions{})

	var pe *domain.ParseError
	require.True(t, errors.As(err, &pe))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAggregator_ActivacionDuplicada_Aborta(t *testing.T) {
	agg := activation.NewAggregator()
	err := agg.Ingest(context.Background(),
		strings.NewReader("555,2020-01-01,2020-02-01\n555,2020-01-01,\n"),
		activation.IngestOptions{})

	assert.ErrorIs(t, err, domain.ErrDuplicateDate)
	var dup *domain.DuplicateDateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "555", dup.PhoneNumber)
}

func TestAggregator_SelladoTrasResultados(t *testing.T) {
	agg := ingest(t, "555,2020-01-01,\n", activation.IngestOptions{})
	_ = agg.Results()

	err := agg.Ingest(context.Background(), strings.NewReader("556,2020-01-01,\n"), activation.IngestOptions{})
	assert.ErrorIs(t, err, domain.ErrAggregatorSealed)
}

func TestAggregator_Latin1(t *testing.T) {
	// 0xE9 = 'é' en ISO-8859-1; el encabezado no es UTF-8 válido.
	input := []byte("TEL\xe9FONO,ACTIVACI\xd3N,BAJA\n555,2020-01-01,\n")
	agg := activation.NewAggregator()
	require.NoError(t, agg.Ingest(context.Background(), bytes.NewReader(input),
		activation.IngestOptions{HasHeader: true, Encoding: activation.EncodingLatin1}))
	assert.Equal(t, 1, agg.Len())
}

func TestAggregator_CodificacionDesconocida(t *testing.T) {
	agg := activation.NewAggregator()
	err := agg.Ingest(context.Background(), strings.NewReader(""), activation.IngestOptions{Encoding: "ebcdic"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAggregator_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := activation.NewAggregator().Ingest(ctx, strings.NewReader(sampleCSV), activation.IngestOptions{HasHeader: true})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAggregator_ShardedMismoResultadoQueSecuencial(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 500; i++ {
		phone := fmt.Sprintf("09%08d", i%37)
		// Activación i, desactivación i+1: cadena continua salvo la primera.
		fmt.Fprintf(&sb, "%s,2010-01-%02d,2010-01-%02d\n", phone, 1+i/37, 2+i/37)
	}
	input := sb.String()

	seq := ingest(t, input, activation.IngestOptions{})
	par := ingest(t, input, activation.IngestOptions{Workers: 4})

	assert.Equal(t, seq.Results(), par.Results())
	assert.Equal(t, seq.Records(), par.Records())
}

func TestAggregator_ShardedPropagaDuplicado(t *testing.T) {
	agg := activation.NewAggregator()
	err := agg.Ingest(context.Background(),
		strings.NewReader("555,2020-01-01,\n556,2020-01-01,\n555,2020-01-01,\n"),
		activation.IngestOptions{Workers: 3})
	assert.ErrorIs(t, err, domain.ErrDuplicateDate)
}

func TestAggregator_ShardedMismoErrorQueSecuencial(t *testing.T) {
	// El duplicado (línea 2) va antes que la fecha malformada (línea 53):
	// ambos modos deben reportar el duplicado.
	var sb strings.Builder
	sb.WriteString("111,2020-01-01,\n111,2020-01-01,\n")
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&sb, "%03d,2020-01-%02d,\n", 200+i, 1+i%28)
	}
	sb.WriteString("999,bad,\n")
	input := sb.String()

	seqErr := activation.NewAggregator().Ingest(context.Background(), strings.NewReader(input), activation.IngestOptions{})
	require.ErrorIs(t, seqErr, domain.ErrDuplicateDate)

	for i := 0; i < 50; i++ {
		err := activation.NewAggregator().Ingest(context.Background(), strings.NewReader(input),
			activation.IngestOptions{Workers: 4})
		require.ErrorIs(t, err, domain.ErrDuplicateDate, "intento %d", i)
		assert.Equal(t, seqErr.Error(), err.Error())
	}
}

func TestAggregator_ShardedParseErrorSinDuplicados(t *testing.T) {
	err := activation.NewAggregator().Ingest(context.Background(),
		strings.NewReader("111,2020-01-01,\n222,2020-01-01,\n999,bad,\n"),
		activation.IngestOptions{Workers: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestAggregator_ShardedContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := activation.NewAggregator().Ingest(ctx, strings.NewReader(sampleCSV),
		activation.IngestOptions{HasHeader: true, Workers: 3})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAggregator_IngestFileYRunFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "entrada.csv")
	out := filepath.Join(dir, "result.csv")
	require.NoError(t, os.WriteFile(in, []byte(sampleCSV), 0o600))

	agg := activation.NewAggregator()
	require.NoError(t, agg.IngestFile(context.Background(), in, activation.IngestOptions{HasHeader: true}))
	require.NoError(t, agg.RunFile(context.Background(), out, export.NewCSVWriter()))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t,
		"PHONE_NUMBER,REAL_ACTIVATION_DATE\n0987000001,2016-06-01\n0987000002,2016-02-01\n0987000003,2016-01-01\n",
		string(got))
}

func TestAggregator_IngestFileInexistente(t *testing.T) {
	err := activation.NewAggregator().IngestFile(context.Background(),
		filepath.Join(t.TempDir(), "no-existe.csv"), activation.IngestOptions{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSummarize_Porcentaje(t *testing.T) {
	agg := ingest(t, "1,2020-01-01,\n2,2020-01-01,2020-01-01\n3,2020-01-01,2020-01-01\n", activation.IngestOptions{})
	report := agg.Report()

	assert.Equal(t, 3, report.Run.PhoneNumbers)
	assert.Equal(t, 1, report.Run.Resolved)
	assert.Equal(t, 2, report.Run.Unresolved)
	assert.Equal(t, "33.33", report.Run.ResolvedPct.StringFixed(2))
}

func TestSummarize_SinNumeros(t *testing.T) {
	run := activation.Summarize(nil, 0)
	assert.True(t, run.ResolvedPct.IsZero())
	assert.Equal(t, 0, run.PhoneNumbers)
}

func TestAggregator_BOMMismoNumero(t *testing.T) {
	agg := ingest(t, "\uFEFF555,2020-01-01,2020-02-01\n555,2020-03-01,\n", activation.IngestOptions{})

	order, dates := resultMap(agg)
	assert.Equal(t, []string{"555"}, order)
	assert.Equal(t, "2020-03-01", dates["555"])
}
