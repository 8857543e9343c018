package ingest

import "strings"

// TypeCode 题型编码，闭集，未识别的编码按行级错误处理
type TypeCode string

const (
	MCQ         TypeCode = "mcq"
	FillBlank   TypeCode = "fill_blank"
	Match       TypeCode = "match"
	OwnResponse TypeCode = "own_response"
	TrueFalse   TypeCode = "true_false"
	OneWord     TypeCode = "one_word"
)

func AllTypeCodes() []TypeCode {
	return []TypeCode{MCQ, FillBlank, Match, OwnResponse, TrueFalse, OneWord}
}

// ParseTypeCode 去空白、转小写后匹配闭集
func ParseTypeCode(raw string) (TypeCode, bool) {
	code := TypeCode(strings.ToLower(strings.TrimSpace(raw)))
	switch code {
	case MCQ, FillBlank, Match, OwnResponse, TrueFalse, OneWord:
		return code, true
	}
	return "", false
}

type ScopeKind string

const (
	ScopeAssignment ScopeKind = "assignment"
	ScopeSubTopic   ScopeKind = "sub_topic"
)

// Scope 本批题目的归属父实体
type Scope struct {
	Kind        ScopeKind `json:"kind"`
	ReferenceID uint      `json:"referenceId"`
}

// RawRow 表格中的一行原始数据，Position 为 1 起始的数据行号
type RawRow struct {
	Position      int
	QuestionType  string
	QuestionText  string
	Options       [4]string // Option_A..Option_D
	CorrectAnswer string
	ExtraData     string
	Marks         *float64
	OrderNo       *int
}

// NormalizedQuestion 流水线的输出单元，产出后不再修改
type NormalizedQuestion struct {
	QuestionTypeID uint    `json:"questionTypeId"`
	QuestionText   *string `json:"questionText"`
	Payload        any     `json:"payload"`
	Marks          float64 `json:"marks"`
	OrderNo        int     `json:"orderNo"`
	Scope          Scope   `json:"scope"`
}

// Options 流水线行为开关
type Options struct {
	// 行级错误不中断整批，失败行进入 Report.Rejected
	ContinueOnRowError bool
	// match 题型 correct_pairs 重复键时报错而非后值覆盖
	StrictMatchPairs bool
}

// Report 一次导入的产出
type Report struct {
	Scope         Scope
	Questions     []NormalizedQuestion
	RowsProcessed int
	Rejected      []RowError
}
