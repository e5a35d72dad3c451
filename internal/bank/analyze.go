package bank

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NotSpecified 缺少题型时使用的名称
const NotSpecified = "Not Specified"

// Completeness 一道题目的字段完整度
type Completeness struct {
	MissingRequired []Field `json:"missingRequired,omitempty"`
	MissingOptional []Field `json:"missingOptional,omitempty"`
}

// IsComplete 必填字段是否齐全
func (c Completeness) IsComplete() bool {
	return len(c.MissingRequired) == 0
}

// MissingText 缺失字段的说明，齐全时返回 "Complete"
func (c Completeness) MissingText() string {
	var parts []string
	if len(c.MissingRequired) > 0 {
		parts = append(parts, "Missing required: "+joinFields(c.MissingRequired))
	}
	if len(c.MissingOptional) > 0 {
		parts = append(parts, "Missing optional: "+joinFields(c.MissingOptional))
	}
	if len(parts) == 0 {
		return "Complete"
	}
	return strings.Join(parts, " | ")
}

func joinFields(fields []Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// CheckCompleteness 检查题目的必填和可选字段
func CheckCompleteness(row Row) Completeness {
	var c Completeness
	for _, f := range RequiredFields {
		if row.IsBlank(f) {
			c.MissingRequired = append(c.MissingRequired, f)
		}
	}
	for _, f := range OptionalFields {
		if row.IsBlank(f) {
			c.MissingOptional = append(c.MissingOptional, f)
		}
	}
	return c
}

// TypeCounts 按题型计数，题型为空时计入 NotSpecified
func TypeCounts(rows []Row) map[string]int {
	counts := make(map[string]int)
	for _, row := range rows {
		t := strings.TrimSpace(row.QnType)
		if t == "" {
			t = NotSpecified
		}
		counts[t]++
	}
	return counts
}

// TypeCount 一个题型及其数量
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// SortedTypeCounts 按数量降序、同数量按名称升序排列
func SortedTypeCounts(counts map[string]int) []TypeCount {
	out := make([]TypeCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, TypeCount{Type: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// Summary 题库整体统计
type Summary struct {
	Total          int `json:"total"`
	Complete       int `json:"complete"`
	Incomplete     int `json:"incomplete"`
	WithAnswers    int `json:"withAnswers"`
	UniqueSubjects int `json:"uniqueSubjects"`
	QuestionTypes  int `json:"questionTypes"`
}

// Summarize 统计完整度、答案和科目数量
func Summarize(rows []Row) Summary {
	s := Summary{Total: len(rows)}
	subjects := make(map[string]struct{})
	for _, row := range rows {
		if CheckCompleteness(row).IsComplete() {
			s.Complete++
		} else {
			s.Incomplete++
		}
		if !row.IsBlank(FieldAnswers) {
			s.WithAnswers++
		}
		if subject := strings.TrimSpace(row.Subject); subject != "" {
			subjects[subject] = struct{}{}
		}
	}
	s.UniqueSubjects = len(subjects)
	s.QuestionTypes = len(TypeCounts(rows))
	return s
}

// Payload 导出/上传的数据格式
type Payload struct {
	ID                 string         `json:"id"`
	Data               []Row          `json:"data"`
	TotalQuestions     int            `json:"totalQuestions"`
	QuestionTypeCounts map[string]int `json:"questionTypeCounts"`
	Timestamp          string         `json:"timestamp"`
}

// NewPayload 构造导出数据
func NewPayload(rows []Row, now time.Time) Payload {
	if rows == nil {
		rows = []Row{}
	}
	return Payload{
		ID:                 uuid.NewString(),
		Data:               rows,
		TotalQuestions:     len(rows),
		QuestionTypeCounts: TypeCounts(rows),
		Timestamp:          now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}
