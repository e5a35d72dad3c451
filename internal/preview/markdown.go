// Package preview 将切分结果渲染为 Markdown 和 HTML，用于人工检查
package preview

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Kunde21/markdownfmt/v3"
	"github.com/Kunde21/markdownfmt/v3/markdown"
	"github.com/nerdneilsfield/go-qbank-segmenter/internal/bank"
	"github.com/nerdneilsfield/go-qbank-segmenter/pkg/segment"
)

// 渲染失败时的可见标记
const (
	MathErrorMarker        = "[math error]"
	ImageUnavailableMarker = "[image unavailable]"
)

// RenderError 渲染错误
type RenderError struct {
	Stage  string
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return e.Stage + ": " + e.Reason + ": " + e.Err.Error()
	}
	return e.Stage + ": " + e.Reason
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"<", `\<`, ">", `\>`, "#", `\#`, "|", `\|`, "$", `\$`, "~", `\~`,
	"\r\n", " ", "\n", " ",
)

// placeholders 公式和图片在格式化期间替换为纯字母数字的占位符
type placeholders struct {
	markers map[string]string
}

func newPlaceholders() *placeholders {
	return &placeholders{markers: make(map[string]string)}
}

func (p *placeholders) protect(kind, original string) string {
	marker := fmt.Sprintf("QBSEG%s%dX", kind, len(p.markers)+1)
	p.markers[marker] = original
	return marker
}

func (p *placeholders) restore(text string) string {
	for marker, original := range p.markers {
		text = strings.ReplaceAll(text, marker, original)
	}
	return text
}

// inline 渲染一组片段
func inline(segs []segment.Segment, ph *placeholders) string {
	var sb strings.Builder
	for _, s := range segs {
		switch s.Kind {
		case segment.KindMath:
			if strings.TrimSpace(s.Value) == "" {
				sb.WriteString(markdownEscaper.Replace(MathErrorMarker))
				continue
			}
			sb.WriteString(ph.protect("MATH", "$"+s.Value+"$"))
		case segment.KindImage:
			if strings.TrimSpace(s.Value) == "" {
				sb.WriteString(markdownEscaper.Replace(ImageUnavailableMarker))
				continue
			}
			sb.WriteString(ph.protect("IMG", imageMarkdown(s.Value)))
		default:
			sb.WriteString(markdownEscaper.Replace(s.Value))
		}
	}
	return strings.TrimSpace(sb.String())
}

func imageMarkdown(url string) string {
	if strings.ContainsAny(url, " ()") {
		return "![image](<" + url + ">)"
	}
	return "![image](" + url + ")"
}

// documentMarkdown 未格式化的 Markdown。连续的列表项合并为一个有序列表
func documentMarkdown(doc *segment.Document, ph *placeholders) string {
	var parts []string
	var list []string

	flush := func() {
		if len(list) > 0 {
			parts = append(parts, strings.Join(list, "\n"))
			list = nil
		}
	}

	for _, b := range doc.Blocks {
		body := inline(b.Segments, ph)
		switch b.Role {
		case segment.RoleItem:
			line := fmt.Sprintf("%d. ", b.Index)
			if b.Label != fmt.Sprintf("%d.", b.Index) {
				line += markdownEscaper.Replace(b.Label) + " "
			}
			list = append(list, line+body)
		case segment.RoleAssertion, segment.RoleReason:
			flush()
			parts = append(parts, "**"+b.Label+"** "+body)
		default:
			flush()
			if body != "" {
				parts = append(parts, body)
			}
		}
	}
	flush()
	return strings.Join(parts, "\n\n")
}

// format 使用 markdownfmt 统一格式，占位符在格式化之后恢复
func format(text string, ph *placeholders) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	formatted, err := markdownfmt.Process("", []byte(text),
		markdown.WithCodeFormatters(markdown.GoCodeFormatter),
	)
	if err != nil {
		return "", &RenderError{Stage: "markdown", Reason: "formatting failed", Err: err}
	}
	return ph.restore(string(formatted)), nil
}

// Markdown 将一个单元格的切分结果渲染为 Markdown
func Markdown(doc *segment.Document) (string, error) {
	if doc.IsEmpty() {
		return "", nil
	}
	ph := newPlaceholders()
	return format(documentMarkdown(doc, ph), ph)
}

// QuestionMarkdown 渲染一道完整的题目，元数据写入 front matter
func QuestionMarkdown(sr bank.SegmentedRow, title string) (string, error) {
	ph := newPlaceholders()

	var parts []string
	if q := sr.Fields[bank.FieldQuestion]; !q.IsEmpty() {
		parts = append(parts, documentMarkdown(q, ph))
	}

	options := []struct {
		label string
		field bank.Field
	}{
		{"A", bank.FieldOptionA},
		{"B", bank.FieldOptionB},
		{"C", bank.FieldOptionC},
		{"D", bank.FieldOptionD},
	}
	for _, o := range options {
		doc := sr.Fields[o.field]
		if doc.IsEmpty() {
			continue
		}
		parts = append(parts, "**"+o.label+".** "+documentMarkdown(doc, ph))
	}
	if ans := sr.Fields[bank.FieldAnswers]; !ans.IsEmpty() {
		parts = append(parts, "**Answer:** "+documentMarkdown(ans, ph))
	}

	body, err := format(strings.Join(parts, "\n\n"), ph)
	if err != nil {
		return "", err
	}

	meta := map[string]string{
		"title":        title,
		"serialNumber": sr.Row.SerialNumber,
		"qnType":       sr.Row.QnType,
		"topic":        sr.Row.Topic,
		"chapter":      sr.Row.Chapter,
		"subject":      sr.Row.Subject,
		"exam":         sr.Row.Exam,
		"completeness": sr.Completeness.MissingText(),
	}
	return FrontMatter(meta) + body, nil
}

// FrontMatter 生成 YAML front matter，空值省略，键按字母顺序
func FrontMatter(meta map[string]string) string {
	keys := make([]string, 0, len(meta))
	for k, v := range meta {
		if strings.TrimSpace(v) != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("---\n")
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(strconv.Quote(meta[k]))
		sb.WriteString("\n")
	}
	sb.WriteString("---\n")
	return sb.String()
}
