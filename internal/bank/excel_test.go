package bank

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func sheetBytes(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := []any{"question", "type", "option_1", "option_2", "option_3", "option_4", "option_5", "option_6", "option_7", "option_8", "correct"}
	for col, v := range header {
		name, _ := excelize.CoordinatesToCellName(col+1, 1)
		assert.NoError(t, f.SetCellValue(sheet, name, v))
	}
	for r, row := range rows {
		for col, v := range row {
			name, _ := excelize.CoordinatesToCellName(col+1, r+2)
			assert.NoError(t, f.SetCellValue(sheet, name, v))
		}
	}

	var buf bytes.Buffer
	assert.NoError(t, f.Write(&buf))
	return &buf
}

func TestImportAppendsValidRowsAndReportsBadOnes(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	importer := NewImporter(svc, zerolog.New(io.Discard))
	scope := quizScope()

	buf := sheetBytes(t, [][]any{
		{"Capital of France?", "MCQ", "Paris", "Lyon", "Nice", "Lille", "", "", "", "", "1"},
		{"Pick the primes", "MSQ", "2", "3", "4", "6", "9", "", "", "", "1,2"},
		{"Too few options", "MCQ", "Yes", "No", "", "", "", "", "", "", "1"},
		{"Go is compiled", "t/f", "True", "False", "", "", "", "", "", "", "1"},
		{"", "MCQ", "a", "b", "c", "d", "", "", "", "", "1"},
	})

	report, err := importer.Import(context.Background(), scope, "importer", buf)
	assert.NoError(t, err)
	assert.Equal(t, 5, report.TotalRows)
	assert.Equal(t, 3, report.SuccessRows)
	assert.Equal(t, 2, report.FailedRows)
	assert.Len(t, report.Errors, 2)
	assert.Equal(t, 4, report.Errors[0].Row, "rows are reported by sheet position")
	assert.Equal(t, 6, report.Errors[1].Row)

	listed, err := svc.ListQuestions(context.Background(), scope)
	assert.NoError(t, err)
	assert.Len(t, listed, 3)
	assert.Equal(t, "Capital of France?", listed[0].Body)
	assert.Equal(t, 1, listed[0].SequenceNo)
	assert.Equal(t, TypeTrueFalse, listed[2].Type)
	assert.Equal(t, 3, listed[2].SequenceNo)
}

func TestImportRejectsBadCorrectColumn(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	importer := NewImporter(svc, zerolog.New(io.Discard))

	buf := sheetBytes(t, [][]any{
		{"Broken", "MCQ", "a", "b", "c", "d", "", "", "", "", "first"},
	})

	report, err := importer.Import(context.Background(), quizScope(), "importer", buf)
	assert.NoError(t, err)
	assert.Equal(t, 1, report.FailedRows)
	assert.Zero(t, report.SuccessRows)
}

func TestImportEmptySheet(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	importer := NewImporter(svc, zerolog.New(io.Discard))

	report, err := importer.Import(context.Background(), quizScope(), "importer", sheetBytes(t, nil))
	assert.NoError(t, err)
	assert.Zero(t, report.TotalRows)
}

func TestExportRoundTripsThroughImport(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	importer := NewImporter(svc, zerolog.New(io.Discard))
	scope := quizScope()

	_, err := svc.AddQuestion(context.Background(), scope, AddQuestionInput{
		Body:    "Pick two",
		Type:    "MSQ",
		Options: markCorrect(opts("a", "b", "c", "d", "e"), 1, 3),
		Actor:   "author",
	})
	assert.NoError(t, err)
	_, err = svc.AddQuestion(context.Background(), scope, mcqInput("Pick one"))
	assert.NoError(t, err)

	data, err := importer.Export(context.Background(), scope)
	assert.NoError(t, err)

	// Re-import into a fresh scope and compare.
	target := quizScope()
	report, err := importer.Import(context.Background(), target, "importer", bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, 2, report.SuccessRows)
	assert.Zero(t, report.FailedRows)

	listed, err := svc.ListQuestions(context.Background(), target)
	assert.NoError(t, err)
	assert.Len(t, listed, 2)
	assert.Equal(t, "Pick two", listed[0].Body)
	correct := 0
	for _, o := range listed[0].Options {
		if o.IsCorrect {
			correct++
		}
	}
	assert.Equal(t, 2, correct)
}
