package bank

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nerdneilsfield/go-qbank-segmenter/pkg/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderMapperResolve(t *testing.T) {
	tests := []struct {
		header string
		fuzzy  bool
		want   Field
		ok     bool
	}{
		{"Serial Number", false, FieldSerialNumber, true},
		{"Q.No", false, FieldSerialNumber, true},
		{"  QUESTION ", false, FieldQuestion, true},
		{"Option a", false, FieldOptionA, true},
		{"Option-B", false, FieldOptionB, true},
		{"Correct option", false, FieldAnswers, true},
		{"Question Type", false, FieldQnType, true},
		{"qnType", false, FieldQnType, true},
		{"optionD", false, FieldOptionD, true},
		{"Ques", false, "", false},
		{"Ques", true, FieldQuestion, true},
		{"Question Text", true, FieldQuestion, true},
		{"Opt A", true, FieldOptionA, true},
		{"Option", true, "", false},
		{"Unrelated Column", true, "", false},
		{"", true, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := NewHeaderMapper(tt.fuzzy).Resolve(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRowFromRecord(t *testing.T) {
	m := NewHeaderMapper(false)
	row := m.RowFromRecord(
		[]string{"Q.No", "Serial Number", "Question", "Answers", "Correct option", "Extra"},
		[]string{"", " 7 ", "What?", "B", "C", "ignored"},
	)
	assert.Equal(t, "7", row.SerialNumber)
	assert.Equal(t, "What?", row.Question)
	// 第一个非空值生效
	assert.Equal(t, "B", row.Answers)

	short := m.RowFromRecord([]string{"Question", "Option A"}, []string{"Only question"})
	assert.Equal(t, "Only question", short.Question)
	assert.Equal(t, "", short.OptionA)
}

func TestRowFromMapPriority(t *testing.T) {
	row := NewHeaderMapper(false).RowFromMap(map[string]any{
		"Q.No":          "x",
		"Serial Number": float64(12),
		"Question":      "Q",
	})
	assert.Equal(t, "12", row.SerialNumber)
	assert.Equal(t, "Q", row.Question)
}

func TestReadCSV(t *testing.T) {
	in := "Serial Number,Question,Option A,Option B,Option C,Option D,Answers,Question Type,Subject\n" +
		`1,"The area is $A = \pi r^2$",a,b,c,d,A,MCQ,Maths` + "\n" +
		",,,,,,,,\n" +
		"2,Second,a,b,,d,,,\n"

	rows, err := NewReader(ReaderConfig{}, nil).ReadCSV(strings.NewReader(in), ',')
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "1", rows[0].SerialNumber)
	assert.Equal(t, `The area is $A = \pi r^2$`, rows[0].Question)
	assert.Equal(t, "MCQ", rows[0].QnType)
	assert.Equal(t, "Maths", rows[0].Subject)
	assert.Equal(t, "Second", rows[1].Question)
	assert.Equal(t, "", rows[1].OptionC)
}

func TestReadCSVEncoding(t *testing.T) {
	// "Question\ncafé\n" 的 Windows-1252 编码
	latin := []byte("Question\ncaf\xe9\n")

	rows, err := NewReader(ReaderConfig{Encoding: "windows-1252"}, nil).ReadCSV(strings.NewReader(string(latin)), ',')
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "café", rows[0].Question)

	_, err = NewReader(ReaderConfig{Encoding: "no-such-charset"}, nil).ReadCSV(strings.NewReader("Question\nx\n"), ',')
	var re *ReadError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "decode failed", re.Reason)
}

func TestDecodeUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"utf8", []byte("héllo"), "héllo"},
		{"utf8 bom", []byte("\xEF\xBB\xBFhi"), "hi"},
		{"utf16 le bom", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "hi"},
		{"utf16 be bom", []byte{0xFE, 0xFF, 0, 'h', 0, 'i'}, "hi"},
		{"empty", []byte{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeUTF8(tt.in, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestReadJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"array", `[{"Question": "Q1", "Option A": "a", "Serial Number": 3}, {}]`},
		{"payload", `{"data": [{"serialNumber": "3", "question": "Q1", "optionA": "a"}], "totalQuestions": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := NewReader(ReaderConfig{}, nil).ReadJSON(strings.NewReader(tt.in))
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "3", rows[0].SerialNumber)
			assert.Equal(t, "Q1", rows[0].Question)
			assert.Equal(t, "a", rows[0].OptionA)
		})
	}

	_, err := NewReader(ReaderConfig{}, nil).ReadJSON(strings.NewReader(`[{"Question": `))
	assert.Error(t, err)
}

func TestReadHTML(t *testing.T) {
	in := `<html><body>
<table>
  <tr><th>Q.No</th><th>Question</th><th>Option A</th><th>Answers</th></tr>
  <tr><td>1</td><td>Look <img src="https://i.imgur.com/a.png"> here</td><td>x<br>y</td><td>A</td></tr>
  <tr><td></td><td></td><td></td><td></td></tr>
</table>
</body></html>`

	rows, err := NewReader(ReaderConfig{}, nil).ReadHTML(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0].SerialNumber)
	assert.Contains(t, rows[0].Question, "![image](https://i.imgur.com/a.png)")
	assert.Equal(t, "x\ny", rows[0].OptionA)
	assert.Equal(t, "A", rows[0].Answers)

	_, err = NewReader(ReaderConfig{}, nil).ReadHTML(strings.NewReader("<p>no table</p>"))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bank.csv")
	require.NoError(t, os.WriteFile(path, []byte("Question,Answers\nQ1,A\n"), 0o644))

	rows, err := NewReader(ReaderConfig{}, nil).ReadFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, err = NewReader(ReaderConfig{}, nil).ReadFile(filepath.Join(dir, "bank.xlsx"))
	var re *ReadError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "unknown format", re.Reason)

	_, err = NewReader(ReaderConfig{}, nil).ReadFile(filepath.Join(dir, "missing.csv"))
	require.ErrorAs(t, err, &re)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "missing.csv")
}

func TestCompleteness(t *testing.T) {
	full := Row{
		Question: "Q", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", Answers: "A",
		QnType: "MCQ", Topic: "t", Chapter: "c", Subject: "s", Exam: "e",
	}
	assert.True(t, CheckCompleteness(full).IsComplete())
	assert.Equal(t, "Complete", CheckCompleteness(full).MissingText())

	partial := Row{Question: "Q", OptionA: "a", OptionB: "  ", OptionC: "c", OptionD: "d", QnType: "MCQ", Topic: "t", Chapter: "c", Subject: "s"}
	c := CheckCompleteness(partial)
	assert.False(t, c.IsComplete())
	assert.Equal(t, "Missing required: optionB, answers | Missing optional: exam", c.MissingText())

	onlyOptional := full
	onlyOptional.Topic = ""
	assert.Equal(t, "Missing optional: topic", CheckCompleteness(onlyOptional).MissingText())
}

func TestTypeCounts(t *testing.T) {
	rows := []Row{{QnType: "MCQ"}, {QnType: " MCQ "}, {QnType: ""}, {QnType: "Assertion-Reason"}}
	counts := TypeCounts(rows)
	assert.Equal(t, map[string]int{"MCQ": 2, NotSpecified: 1, "Assertion-Reason": 1}, counts)

	assert.Equal(t, []TypeCount{
		{Type: "MCQ", Count: 2},
		{Type: "Assertion-Reason", Count: 1},
		{Type: NotSpecified, Count: 1},
	}, SortedTypeCounts(counts))
}

func TestSummarize(t *testing.T) {
	rows := []Row{
		{Question: "Q", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", Answers: "A", Subject: "Maths"},
		{Question: "Q2", Subject: "maths"},
		{Question: "Q3", Answers: "B", Subject: "Maths"},
	}
	s := Summarize(rows)
	assert.Equal(t, Summary{Total: 3, Complete: 1, Incomplete: 2, WithAnswers: 2, UniqueSubjects: 2, QuestionTypes: 1}, s)
}

func TestPayload(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	p := NewPayload([]Row{{Question: "Q", QnType: "MCQ"}}, now)

	_, err := uuid.Parse(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalQuestions)
	assert.Equal(t, map[string]int{"MCQ": 1}, p.QuestionTypeCounts)
	assert.Equal(t, "2026-01-02T03:04:05.006Z", p.Timestamp)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"totalQuestions":1`)
	assert.Contains(t, string(data), `"qnType":"MCQ"`)

	empty := NewPayload(nil, now)
	assert.NotNil(t, empty.Data)
	assert.Equal(t, 0, empty.TotalQuestions)
}

func TestProcess(t *testing.T) {
	rows := make([]Row, 20)
	for i := range rows {
		rows[i] = Row{Question: "Solve $x^2$", OptionA: "![a](https://i.imgur.com/a.png)", SerialNumber: string(rune('a' + i))}
	}

	p := NewProcessor(segment.New(), 4, nil)
	results, err := p.Process(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, results, len(rows))

	for i, r := range results {
		assert.Equal(t, rows[i].SerialNumber, r.Row.SerialNumber)
		assert.Equal(t, 1, r.Fields[FieldQuestion].CountByKind()[segment.KindMath])
		assert.Equal(t, 1, r.Fields[FieldOptionA].CountByKind()[segment.KindImage])
		assert.True(t, r.Fields[FieldAnswers].IsEmpty())
		assert.False(t, r.Completeness.IsComplete())
	}
	counts := results[0].Counts()
	assert.Equal(t, 1, counts[segment.KindMath])
	assert.Equal(t, 1, counts[segment.KindImage])
	assert.Equal(t, 1, counts[segment.KindText])
}

func TestProcessCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := NewProcessor(nil, 2, nil).Process(ctx, []Row{{Question: "a"}, {Question: "b"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, len(results), 2)
}
