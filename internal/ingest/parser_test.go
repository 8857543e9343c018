package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/xuri/excelize/v2"
)

var sheetHeaders = []string{
	"Question_Type", "Question_Text", "Option_A", "Option_B", "Option_C", "Option_D",
	"Correct_Answer", "Extra_Data", "Marks", "Order_No",
}

// buildSheet 在内存中生成测试用 xlsx，首行为表头
func buildSheet(t *testing.T, headers []string, rows [][]string) io.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetList()[0]
	hdr := make([]interface{}, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		t.Fatalf("set header row: %v", err)
	}
	for i, row := range rows {
		vals := make([]interface{}, len(row))
		for j, v := range row {
			vals[j] = v
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			t.Fatalf("set row %d: %v", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestParseRows_MalformedFile(t *testing.T) {
	_, _, err := ParseRows(bytes.NewReader([]byte("definitely not a spreadsheet")))
	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput, got %v", err)
	}
}

func TestParseRows_EmptySheet(t *testing.T) {
	r := buildSheet(t, sheetHeaders, nil)
	_, _, err := ParseRows(r)
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestParseRows_HeaderMatchingIsCaseInsensitive(t *testing.T) {
	headers := []string{"question type", "QUESTION_TEXT", "option_a", "option_b", "option_c", "option_d", "Correct Answer", "extra_data", "marks", "order_no"}
	r := buildSheet(t, headers, [][]string{
		{"mcq", "  2+2?  ", "3", "4", "", "", "4", "", "2", "7"},
	})

	rows, rowErrs, err := ParseRows(r)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("expected no row errors, got %v", rowErrs)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.Position != 1 {
		t.Errorf("position = %d, want 1", row.Position)
	}
	if row.QuestionType != "mcq" || row.QuestionText != "2+2?" {
		t.Errorf("unexpected row: %+v", row)
	}
	if row.Marks == nil || *row.Marks != 2 {
		t.Errorf("marks = %v, want 2", row.Marks)
	}
	if row.OrderNo == nil || *row.OrderNo != 7 {
		t.Errorf("order_no = %v, want 7", row.OrderNo)
	}
}

func TestParseRows_InvalidNumericCell(t *testing.T) {
	r := buildSheet(t, sheetHeaders, [][]string{
		{"mcq", "q1", "", "", "", "", "a", "", "abc", ""},
		{"mcq", "q2", "", "", "", "", "a", "", "", ""},
	})

	rows, rowErrs, err := ParseRows(r)
	if err != nil {
		t.Fatalf("expected no fatal error, got: %v", err)
	}
	if len(rows) != 1 || rows[0].Position != 2 {
		t.Errorf("expected only row 2 to parse, got %+v", rows)
	}
	if len(rowErrs) != 1 || rowErrs[0].Position != 1 {
		t.Fatalf("expected one error at row 1, got %v", rowErrs)
	}
}

func TestParseRows_BlankRowsSkipped(t *testing.T) {
	r := buildSheet(t, sheetHeaders, [][]string{
		{"mcq", "q1", "", "", "", "", "a", "", "", ""},
		{"", "", "", "", "", "", "", "", "", ""},
		{"mcq", "q3", "", "", "", "", "a", "", "", ""},
	})

	rows, _, err := ParseRows(r)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// 空白行不产出，但文件行号保持
	if rows[1].Position != 3 {
		t.Errorf("second row position = %d, want 3", rows[1].Position)
	}
}
