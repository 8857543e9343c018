package ingest

import (
	"context"
	"io"
	"sort"
)

// TypeLookup 题型编码到存储主键的只读解析，由调用方以题型字典表实现。
// 一次导入只做一次批量查询。
type TypeLookup interface {
	ResolveTypes(ctx context.Context, codes []string) (map[string]uint, error)
}

// Run 驱动一次完整导入：先整体解析（期间不触库），再做一次题型批量查询，
// 随后按文件顺序逐行归一化。持久化完全留给调用方。
//
// 默认整批中止：任一行失败返回 *BatchError，不产出任何题目。
// opts.ContinueOnRowError 开启后失败行进入 Report.Rejected，其余行照常产出。
func Run(ctx context.Context, r io.Reader, scope Scope, lookup TypeLookup, opts Options) (*Report, error) {
	rows, rowErrs, err := ParseRows(r)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(AllTypeCodes()))
	for _, c := range AllTypeCodes() {
		codes = append(codes, string(c))
	}
	typeIDs, err := lookup.ResolveTypes(ctx, codes)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Scope:         scope,
		RowsProcessed: len(rows) + len(rowErrs),
		Rejected:      rowErrs,
	}

	for _, row := range rows {
		q, err := normalizeRow(row, scope, typeIDs, opts)
		if err != nil {
			report.Rejected = append(report.Rejected, RowError{Position: row.Position, Err: err})
			continue
		}
		report.Questions = append(report.Questions, *q)
	}

	sort.Slice(report.Rejected, func(i, j int) bool {
		return report.Rejected[i].Position < report.Rejected[j].Position
	})

	if len(report.Rejected) > 0 && !opts.ContinueOnRowError {
		first := report.Rejected[0]
		return nil, &BatchError{
			First:    &first,
			Accepted: len(report.Questions),
			Total:    report.RowsProcessed,
		}
	}
	return report, nil
}

func normalizeRow(row RawRow, scope Scope, typeIDs map[string]uint, opts Options) (*NormalizedQuestion, error) {
	if row.QuestionType == "" {
		return nil, &MissingFieldError{Field: "Question_Type"}
	}
	code, ok := ParseTypeCode(row.QuestionType)
	if !ok {
		return nil, &InvalidQuestionTypeError{Code: row.QuestionType}
	}
	typeID, ok := typeIDs[string(code)]
	if !ok {
		return nil, &InvalidQuestionTypeError{Code: string(code)}
	}

	// match 题干可缺省，其余题型必填
	if row.QuestionText == "" && code != Match {
		return nil, &MissingFieldError{Field: "Question_Text"}
	}

	payload, err := Normalize(code, row, opts)
	if err != nil {
		return nil, err
	}

	marks := 1.0
	if row.Marks != nil {
		marks = *row.Marks
	}
	// Order_No 缺省取文件内 1 起始行号，之后不再重排
	orderNo := row.Position
	if row.OrderNo != nil {
		orderNo = *row.OrderNo
	}

	return &NormalizedQuestion{
		QuestionTypeID: typeID,
		QuestionText:   optStr(row.QuestionText),
		Payload:        payload,
		Marks:          marks,
		OrderNo:        orderNo,
		Scope:          scope,
	}, nil
}
