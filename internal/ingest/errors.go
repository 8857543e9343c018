package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput 文件无法按表格解析
	ErrMalformedInput = errors.New("file is not a readable spreadsheet")
	// ErrEmptyInput 表格没有数据行
	ErrEmptyInput = errors.New("spreadsheet has no data rows")
)

// MissingFieldError 行内缺少必填列
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// InvalidQuestionTypeError 未识别的题型编码
type InvalidQuestionTypeError struct {
	Code string
}

func (e *InvalidQuestionTypeError) Error() string {
	return fmt.Sprintf("unknown question type %q", e.Code)
}

// DuplicatePairKeyError 严格模式下 match 题 correct_pairs 出现重复键
type DuplicatePairKeyError struct {
	Key string
}

func (e *DuplicatePairKeyError) Error() string {
	return fmt.Sprintf("duplicate match pair key %q", e.Key)
}

// RowError 将行级错误与 1 起始行号关联
type RowError struct {
	Position int
	Err      error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Position, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// BatchError 整批中止模式下的汇总错误，Accepted 为本可接受的行数
type BatchError struct {
	First    *RowError
	Accepted int
	Total    int
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%v (%d of %d rows would have been accepted)", e.First, e.Accepted, e.Total)
}

func (e *BatchError) Unwrap() error {
	return e.First
}
