package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// 表头按小写、下划线归一后匹配，列顺序不限
var headerFields = map[string]string{
	"question_type":  "type",
	"question_text":  "text",
	"option_a":       "a",
	"option_b":       "b",
	"option_c":       "c",
	"option_d":       "d",
	"correct_answer": "answer",
	"extra_data":     "extra",
	"marks":          "marks",
	"order_no":       "order",
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.ReplaceAll(h, " ", "_")
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ParseRows 将 xlsx 字节流解析为有序的原始行序列。
// 只读第一个工作表，第一行为表头；数据行号从 1 起算，作为 Order_No 缺省时的兜底。
// 纯内存转换，数值列解析失败的行以 RowError 返回，不中断其余行。
func ParseRows(r io.Reader) ([]RawRow, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, ErrMalformedInput
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrMalformedInput
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, ErrMalformedInput
	}
	if len(cells) <= 1 {
		return nil, nil, ErrEmptyInput
	}

	// 表头 -> 列下标
	cols := map[string]int{}
	for i, h := range cells[0] {
		if key, ok := headerFields[normalizeHeader(h)]; ok {
			cols[key] = i
		}
	}

	col := func(key string) int {
		if i, ok := cols[key]; ok {
			return i
		}
		return -1
	}

	allEmpty := func(rc []string) bool {
		for _, c := range rc {
			if strings.TrimSpace(c) != "" {
				return false
			}
		}
		return true
	}

	var rows []RawRow
	var rowErrs []RowError
	for i, rc := range cells[1:] {
		pos := i + 1
		if allEmpty(rc) {
			// 空白行跳过，但行号仍按文件位置推进
			continue
		}

		row := RawRow{
			Position:      pos,
			QuestionType:  cell(rc, col("type")),
			QuestionText:  cell(rc, col("text")),
			CorrectAnswer: cell(rc, col("answer")),
			ExtraData:     cell(rc, col("extra")),
		}
		row.Options[0] = cell(rc, col("a"))
		row.Options[1] = cell(rc, col("b"))
		row.Options[2] = cell(rc, col("c"))
		row.Options[3] = cell(rc, col("d"))

		bad := false
		if raw := cell(rc, col("marks")); raw != "" {
			m, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				rowErrs = append(rowErrs, RowError{Position: pos, Err: fmt.Errorf("invalid Marks value %q", raw)})
				bad = true
			} else {
				row.Marks = &m
			}
		}
		if raw := cell(rc, col("order")); raw != "" && !bad {
			n, err := strconv.Atoi(raw)
			if err != nil {
				rowErrs = append(rowErrs, RowError{Position: pos, Err: fmt.Errorf("invalid Order_No value %q", raw)})
				bad = true
			} else {
				row.OrderNo = &n
			}
		}
		if bad {
			continue
		}

		rows = append(rows, row)
	}

	if len(rows) == 0 && len(rowErrs) == 0 {
		return nil, nil, ErrEmptyInput
	}
	return rows, rowErrs, nil
}
