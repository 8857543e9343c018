package ingest

import "strings"

// 各题型 payload 结构，一种题型一种结构，不混用

type MCQPayload struct {
	Options       [4]*string `json:"options"`
	CorrectAnswer *string    `json:"correct_answer"`
}

type FillBlankPayload struct {
	Sentence       *string  `json:"sentence"`
	CorrectAnswers []string `json:"correct_answers"`
}

type MatchPayload struct {
	ColumnA      []string          `json:"column_a"`
	ColumnB      []string          `json:"column_b"`
	CorrectPairs map[string]string `json:"correct_pairs"`
}

type OwnResponsePayload struct {
	ExpectedKeywords []string `json:"expected_keywords"`
}

type TrueFalsePayload struct {
	Statement     *string `json:"statement"`
	CorrectAnswer bool    `json:"correct_answer"`
}

type OneWordPayload struct {
	Definition    *string `json:"definition"`
	CorrectAnswer *string `json:"correct_answer"`
}

type normalizeFunc func(row RawRow, opts Options) (any, error)

// registry 题型 -> 归一化函数，构建一次，所有导入入口共用
var registry = map[TypeCode]normalizeFunc{
	MCQ:         normalizeMCQ,
	FillBlank:   normalizeFillBlank,
	Match:       normalizeMatch,
	OwnResponse: normalizeOwnResponse,
	TrueFalse:   normalizeTrueFalse,
	OneWord:     normalizeOneWord,
}

// Normalize 按题型将原始行转为结构化 payload，无副作用
func Normalize(code TypeCode, row RawRow, opts Options) (any, error) {
	fn, ok := registry[code]
	if !ok {
		return nil, &InvalidQuestionTypeError{Code: string(code)}
	}
	return fn(row, opts)
}

// optStr 空串视为缺失，序列化为 null
func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// splitTrim 源字段缺失时当空串切分，得到 [""] 而非报错
func splitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func normalizeMCQ(row RawRow, _ Options) (any, error) {
	p := MCQPayload{CorrectAnswer: optStr(row.CorrectAnswer)}
	for i, o := range row.Options {
		p.Options[i] = optStr(o)
	}
	return p, nil
}

func normalizeFillBlank(row RawRow, _ Options) (any, error) {
	return FillBlankPayload{
		Sentence:       optStr(row.QuestionText),
		CorrectAnswers: splitTrim(row.CorrectAnswer, ","),
	}, nil
}

// ParsePairs 解析 "A1-B1,A2-B2" 形式的配对串。
// 没有 "-" 的记号静默丢弃；重复键后值覆盖，strict 为真时重复键报错。
func ParsePairs(raw string, strict bool) (map[string]string, error) {
	pairs := map[string]string{}
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		k, v, found := strings.Cut(tok, "-")
		if !found {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if _, dup := pairs[k]; dup && strict {
			return nil, &DuplicatePairKeyError{Key: k}
		}
		pairs[k] = v
	}
	return pairs, nil
}

func normalizeMatch(row RawRow, opts Options) (any, error) {
	pairs, err := ParsePairs(row.CorrectAnswer, opts.StrictMatchPairs)
	if err != nil {
		return nil, err
	}
	return MatchPayload{
		ColumnA:      splitTrim(row.Options[0], ";"),
		ColumnB:      splitTrim(row.Options[1], ";"),
		CorrectPairs: pairs,
	}, nil
}

func normalizeOwnResponse(row RawRow, _ Options) (any, error) {
	return OwnResponsePayload{
		ExpectedKeywords: splitTrim(row.ExtraData, ","),
	}, nil
}

// true 当且仅当去空白、转小写后的原值为 "true" 或 "1"
func ParseBoolAnswer(raw string) bool {
	v := strings.ToLower(strings.TrimSpace(raw))
	return v == "true" || v == "1"
}

func normalizeTrueFalse(row RawRow, _ Options) (any, error) {
	return TrueFalsePayload{
		Statement:     optStr(row.QuestionText),
		CorrectAnswer: ParseBoolAnswer(row.CorrectAnswer),
	}, nil
}

func normalizeOneWord(row RawRow, _ Options) (any, error) {
	return OneWordPayload{
		Definition:    optStr(row.QuestionText),
		CorrectAnswer: optStr(row.CorrectAnswer),
	}, nil
}
