package bank

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const maxSheetOptions = 8

// ImportRowError describes one rejected spreadsheet row.
type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportReport summarizes a bulk import. Rows that fail validation are
// reported and skipped; accepted rows are appended in sheet order so the
// sequence invariant holds.
type ImportReport struct {
	TotalRows   int              `json:"total_rows"`
	SuccessRows int              `json:"success_rows"`
	FailedRows  int              `json:"failed_rows"`
	Errors      []ImportRowError `json:"errors"`
}

// Importer reads question sheets and feeds them through the bank service.
//
// Expected layout: header row, then one question per row with columns
// question | type | option_1..option_8 | correct (comma-separated 1-based
// option numbers, blank for feedback banks).
type Importer struct {
	bank   Bank
	logger zerolog.Logger
}

func NewImporter(bank Bank, logger zerolog.Logger) *Importer {
	return &Importer{
		bank:   bank,
		logger: logger.With().Str("component", "bank_import").Logger(),
	}
}

func (im *Importer) Import(ctx context.Context, scope Scope, actor string, r io.Reader) (*ImportReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open excel: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return &ImportReport{}, nil
	}

	report := &ImportReport{}
	for i, row := range rows[1:] {
		rowNo := i + 2 // 1-based, after the header
		report.TotalRows++

		input, err := parseQuestionRow(row)
		if err != nil {
			report.FailedRows++
			report.Errors = append(report.Errors, ImportRowError{Row: rowNo, Error: err.Error()})
			continue
		}
		input.Actor = actor

		if _, err := im.bank.AddQuestion(ctx, scope, input); err != nil {
			if IsValidation(err) {
				report.FailedRows++
				report.Errors = append(report.Errors, ImportRowError{Row: rowNo, Error: err.Error()})
				continue
			}
			// Storage faults abort the whole import; partial progress up to
			// the failed row is already committed per question.
			return nil, err
		}
		report.SuccessRows++
	}

	im.logger.Info().
		Str("scope", scope.String()).
		Int("total", report.TotalRows).
		Int("failed", report.FailedRows).
		Msg("bulk import finished")
	return report, nil
}

func parseQuestionRow(row []string) (AddQuestionInput, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	input := AddQuestionInput{Body: cell(0), Type: cell(1)}
	if input.Body == "" {
		return AddQuestionInput{}, fmt.Errorf("question column is empty")
	}

	correct := map[int]bool{}
	if raw := cell(2 + maxSheetOptions); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || n < 1 || n > maxSheetOptions {
				return AddQuestionInput{}, fmt.Errorf("bad correct column value %q", raw)
			}
			correct[n] = true
		}
	}

	for i := 1; i <= maxSheetOptions; i++ {
		text := cell(1 + i)
		if text == "" {
			continue
		}
		input.Options = append(input.Options, OptionInput{Text: text, IsCorrect: correct[i]})
	}
	return input, nil
}

// Export renders a scope's questions as an .xlsx workbook in the same
// layout Import expects.
func (im *Importer) Export(ctx context.Context, scope Scope) ([]byte, error) {
	questions, err := im.bank.ListQuestions(ctx, scope)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{"question", "type"}
	for i := 1; i <= maxSheetOptions; i++ {
		headers = append(headers, fmt.Sprintf("option_%d", i))
	}
	headers = append(headers, "correct")
	for i, h := range headers {
		name, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, name, h)
	}

	for rowIdx, q := range questions {
		row := rowIdx + 2
		values := []any{q.Body, string(q.Type)}
		var correct []string
		for i, o := range q.Options {
			values = append(values, o.Text)
			if o.IsCorrect {
				correct = append(correct, strconv.Itoa(i+1))
			}
		}
		for len(values) < 2+maxSheetOptions {
			values = append(values, "")
		}
		values = append(values, strings.Join(correct, ","))
		for col, v := range values {
			name, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, name, v)
		}
	}
	_ = f.SetColWidth(sheet, "A", "B", 40)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}
