package service

import (
	"college_edu_backend/internal/ingest"
	"encoding/json"
	"strings"
)

// GradeAnswer 按题型对单题作答判分，返回得分（0..marks）与是否全对。
// 纯函数，payload 为题目入库时的结构化内容。
func GradeAnswer(code ingest.TypeCode, payload json.RawMessage, given string, marks float64) (float64, bool, error) {
	given = strings.TrimSpace(given)
	if given == "" {
		return 0, false, nil
	}

	switch code {
	case ingest.MCQ:
		var p ingest.MCQPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return 0, false, err
		}
		if p.CorrectAnswer != nil && strings.EqualFold(given, strings.TrimSpace(*p.CorrectAnswer)) {
			return marks, true, nil
		}
		return 0, false, nil

	case ingest.OneWord:
		var p ingest.OneWordPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return 0, false, err
		}
		if p.CorrectAnswer != nil && strings.EqualFold(given, strings.TrimSpace(*p.CorrectAnswer)) {
			return marks, true, nil
		}
		return 0, false, nil

	case ingest.TrueFalse:
		var p ingest.TrueFalsePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return 0, false, err
		}
		if ingest.ParseBoolAnswer(given) == p.CorrectAnswer {
			return marks, true, nil
		}
		return 0, false, nil

	case ingest.FillBlank:
		var p ingest.FillBlankPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return 0, false, err
		}
		for _, accepted := range p.CorrectAnswers {
			if accepted != "" && strings.EqualFold(given, accepted) {
				return marks, true, nil
			}
		}
		return 0, false, nil

	case ingest.Match:
		var p ingest.MatchPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return 0, false, err
		}
		if len(p.CorrectPairs) == 0 {
			return 0, false, nil
		}
		// 作答采用与导入一致的 "A1-B1,A2-B2" 配对语法，按命中比例给分
		answered, _ := ingest.ParsePairs(given, false)
		hits := 0
		for k, v := range p.CorrectPairs {
			if av, ok := answered[k]; ok && strings.EqualFold(av, v) {
				hits++
			}
		}
		score := marks * float64(hits) / float64(len(p.CorrectPairs))
		return score, hits == len(p.CorrectPairs), nil

	case ingest.OwnResponse:
		var p ingest.OwnResponsePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return 0, false, err
		}
		var keywords []string
		for _, kw := range p.ExpectedKeywords {
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) == 0 {
			return 0, false, nil
		}
		// 按关键词命中比例给分
		lower := strings.ToLower(given)
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				hits++
			}
		}
		score := marks * float64(hits) / float64(len(keywords))
		return score, hits == len(keywords), nil
	}

	return 0, false, &ingest.InvalidQuestionTypeError{Code: string(code)}
}

// RedactPayload 学生端视图：剥离 payload 中的答案字段
func RedactPayload(code ingest.TypeCode, payload json.RawMessage) (map[string]any, error) {
	switch code {
	case ingest.MCQ:
		var p ingest.MCQPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		return map[string]any{"options": p.Options}, nil
	case ingest.FillBlank:
		var p ingest.FillBlankPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		return map[string]any{"sentence": p.Sentence}, nil
	case ingest.Match:
		var p ingest.MatchPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		return map[string]any{"column_a": p.ColumnA, "column_b": p.ColumnB}, nil
	case ingest.TrueFalse:
		var p ingest.TrueFalsePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		return map[string]any{"statement": p.Statement}, nil
	case ingest.OneWord:
		var p ingest.OneWordPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		return map[string]any{"definition": p.Definition}, nil
	case ingest.OwnResponse:
		return map[string]any{}, nil
	}
	return nil, &ingest.InvalidQuestionTypeError{Code: string(code)}
}
