package preview

import (
	"bytes"
	"fmt"
	"html/template"

	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Page 渲染后的 HTML 片段及其元数据
type Page struct {
	Title string
	Meta  map[string]any
	Body  string
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			mathjax.MathJax,
			meta.Meta,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)
}

// HTML 将 Markdown 转为 HTML。front matter 中的 title 作为页面标题
func HTML(src []byte) (*Page, error) {
	var buf bytes.Buffer
	ctx := parser.NewContext()
	if err := newMarkdown().Convert(src, &buf, parser.WithContext(ctx)); err != nil {
		return nil, &RenderError{Stage: "html", Reason: "conversion failed", Err: err}
	}

	page := &Page{Meta: meta.Get(ctx), Body: buf.String()}
	if page.Meta == nil {
		page.Meta = map[string]any{}
	}
	if title, ok := page.Meta["title"]; ok {
		page.Title = fmt.Sprint(title)
	}
	return page, nil
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script>
window.MathJax = {
  tex: {
    inlineMath: [['$', '$'], ['\\(', '\\)']],
    displayMath: [['$$', '$$'], ['\\[', '\\]']]
  },
  svg: { fontCache: 'global' }
};
</script>
<script id="MathJax-script" async src="https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-svg.js"></script>
<style>
body { font-family: sans-serif; max-width: 860px; margin: 2em auto; line-height: 1.6; }
img { max-width: 100%; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Standalone 生成可直接在浏览器打开的完整页面，公式由 MathJax 渲染
func (p *Page) Standalone(defaultTitle string) (string, error) {
	title := p.Title
	if title == "" {
		title = defaultTitle
	}
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(p.Body),
	})
	if err != nil {
		return "", &RenderError{Stage: "html", Reason: "template failed", Err: err}
	}
	return buf.String(), nil
}
