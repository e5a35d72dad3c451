// Package bank 读取表格形式的题库，并用切分引擎处理每个字段
package bank

import (
	"strings"
)

// Field 题目字段，取值与导出 JSON 的键一致
type Field string

const (
	FieldSerialNumber Field = "serialNumber"
	FieldQuestion     Field = "question"
	FieldOptionA      Field = "optionA"
	FieldOptionB      Field = "optionB"
	FieldOptionC      Field = "optionC"
	FieldOptionD      Field = "optionD"
	FieldAnswers      Field = "answers"
	FieldQnType       Field = "qnType"
	FieldTopic        Field = "topic"
	FieldChapter      Field = "chapter"
	FieldSubject      Field = "subject"
	FieldExam         Field = "exam"
)

// RequiredFields 完整题目必须包含的字段
var RequiredFields = []Field{FieldQuestion, FieldOptionA, FieldOptionB, FieldOptionC, FieldOptionD, FieldAnswers}

// OptionalFields 缺失时只给出提示的字段
var OptionalFields = []Field{FieldQnType, FieldTopic, FieldChapter, FieldSubject, FieldExam}

// ContentFields 需要切分渲染的字段
var ContentFields = []Field{FieldQuestion, FieldOptionA, FieldOptionB, FieldOptionC, FieldOptionD, FieldAnswers}

var allFields = []Field{
	FieldSerialNumber, FieldQuestion, FieldOptionA, FieldOptionB, FieldOptionC, FieldOptionD,
	FieldAnswers, FieldQnType, FieldTopic, FieldChapter, FieldSubject, FieldExam,
}

// Row 一道题目
type Row struct {
	SerialNumber string `json:"serialNumber"`
	Question     string `json:"question"`
	OptionA      string `json:"optionA"`
	OptionB      string `json:"optionB"`
	OptionC      string `json:"optionC"`
	OptionD      string `json:"optionD"`
	Answers      string `json:"answers"`
	QnType       string `json:"qnType"`
	Topic        string `json:"topic"`
	Chapter      string `json:"chapter"`
	Subject      string `json:"subject"`
	Exam         string `json:"exam"`
}

// Get 返回字段的值
func (r *Row) Get(f Field) string {
	if p := r.field(f); p != nil {
		return *p
	}
	return ""
}

// Set 设置字段的值，未知字段忽略
func (r *Row) Set(f Field, value string) {
	if p := r.field(f); p != nil {
		*p = value
	}
}

func (r *Row) field(f Field) *string {
	switch f {
	case FieldSerialNumber:
		return &r.SerialNumber
	case FieldQuestion:
		return &r.Question
	case FieldOptionA:
		return &r.OptionA
	case FieldOptionB:
		return &r.OptionB
	case FieldOptionC:
		return &r.OptionC
	case FieldOptionD:
		return &r.OptionD
	case FieldAnswers:
		return &r.Answers
	case FieldQnType:
		return &r.QnType
	case FieldTopic:
		return &r.Topic
	case FieldChapter:
		return &r.Chapter
	case FieldSubject:
		return &r.Subject
	case FieldExam:
		return &r.Exam
	}
	return nil
}

// IsBlank 字段是否为空或只有空白
func (r *Row) IsBlank(f Field) bool {
	return strings.TrimSpace(r.Get(f)) == ""
}

// IsEmpty 整行是否没有任何内容
func (r *Row) IsEmpty() bool {
	for _, f := range allFields {
		if !r.IsBlank(f) {
			return false
		}
	}
	return true
}
