package segment

import (
	"strings"

	"github.com/dlclark/regexp2"
	"golang.org/x/net/html"
)

// ruleClass 决定候选区间如何转换为片段
type ruleClass int

const (
	classImageDirective ruleClass = iota // 显式图片指令，总是生成图片
	classImageURL                        // 裸图片地址
	classDelimitedMath                   // $...$、\(...\) 等定界公式
	classPipe                            // |...|，内容像公式时才是公式
	classCommand                         // 命令、上下标，去掉内部空白
)

// Rule 一条区间匹配规则
type Rule struct {
	Name    string
	class   ruleClass
	pattern *regexp2.Regexp
	// content 提取载荷，为空时取命名分组 content，没有该分组则取整个匹配
	content func(m *regexp2.Match) string
	// accept 过滤候选，为空时全部接受
	accept func(c *Classifier, content string) bool
}

// 规则名称
const (
	RuleImageDirective = "image-directive"
	RuleMarkdownImage  = "markdown-image"
	RuleHTMLImage      = "html-image"
	RuleImageURL       = "image-url"
	RuleDisplayDollar  = "display-dollar"
	RuleInlineDollar   = "inline-dollar"
	RuleParenMath      = "paren-math"
	RuleBracketMath    = "bracket-math"
	RulePipe           = "pipe"
	RuleCommand        = "command"
	RuleSubSup         = "subsup"
	RuleBareCommand    = "bare-command"
)

// 最多三层嵌套的花括号组
const (
	braceDepth1 = `\{[^{}]*\}`
	braceDepth2 = `\{(?:[^{}]|` + braceDepth1 + `)*\}`
	braceDepth3 = `\{(?:[^{}]|` + braceDepth2 + `)*\}`

	// 可选参数和上下标前缀，例如 \sqrt[3]{x}、\sum_{i}
	braceArgPrefix = `\s*(?:\[[^\[\]{}]*\]\s*)?(?:[_^]\s*)?`
)

// defaultRules 按发现顺序排列。起点相同时排在前面的规则胜出
func defaultRules() []*Rule {
	return []*Rule{
		{
			Name:    RuleImageDirective,
			class:   classImageDirective,
			pattern: mustCompile(`\\includegraphics\s*(?:\[[^\]]*\])?\s*\{\s*(?<content>[^{}]*?)\s*\}`, regexp2.None),
		},
		{
			Name:    RuleMarkdownImage,
			class:   classImageDirective,
			pattern: mustCompile(`!\[[^\]]*\]\(\s*(?<content>[^)\s]*)(?:\s+"[^"]*")?\s*\)`, regexp2.None),
		},
		{
			Name:    RuleHTMLImage,
			class:   classImageDirective,
			pattern: mustCompile(`<img\b[^<>]*\bsrc\s*=[^<>]*>`, regexp2.IgnoreCase),
			content: func(m *regexp2.Match) string { return imgSrc(m.String()) },
		},
		{
			Name:    RuleImageURL,
			class:   classImageURL,
			pattern: mustCompile(`https?://[^\s<>"'|{}]*[^\s<>"'|{}.,;:!?)\]]`, regexp2.IgnoreCase),
			accept:  func(c *Classifier, content string) bool { return c.IsImageReference(content) },
		},
		{
			Name:    RuleDisplayDollar,
			class:   classDelimitedMath,
			pattern: mustCompile(`\$\$(?<content>[\s\S]+?)\$\$`, regexp2.None),
		},
		{
			Name:    RuleInlineDollar,
			class:   classDelimitedMath,
			pattern: mustCompile(`\$(?<content>[^$]+?)\$`, regexp2.None),
		},
		{
			Name:    RuleParenMath,
			class:   classDelimitedMath,
			pattern: mustCompile(`\\\((?<content>(?:\\\((?:(?!\\[()])[\s\S])*\\\)|(?!\\[()])[\s\S])*)\\\)`, regexp2.None),
		},
		{
			Name:    RuleBracketMath,
			class:   classDelimitedMath,
			pattern: mustCompile(`\\\[(?<content>[\s\S]*?)\\\]`, regexp2.None),
		},
		{
			Name:    RulePipe,
			class:   classPipe,
			pattern: mustCompile(`\|(?<content>[^|\n]+)\|`, regexp2.None),
		},
		{
			Name:    RuleCommand,
			class:   classCommand,
			pattern: mustCompile(`(?<!\\)\\[a-zA-Z]+(?:`+braceArgPrefix+braceDepth3+`)+`, regexp2.None),
		},
		{
			Name:    RuleSubSup,
			class:   classCommand,
			pattern: mustCompile(`(?<![\\A-Za-z0-9])[A-Za-z0-9]+(?:[_^]`+braceDepth3+`)+`, regexp2.None),
		},
		{
			Name:    RuleBareCommand,
			class:   classCommand,
			pattern: mustCompile(`(?<!\\)\\[a-zA-Z]+(?![a-zA-Z])(?!`+braceArgPrefix+`\{)`, regexp2.None),
		},
	}
}

// extract 返回匹配的载荷
func (r *Rule) extract(m *regexp2.Match) string {
	if r.content != nil {
		return r.content(m)
	}
	if v, ok := groupString(m, "content"); ok {
		return v
	}
	return m.String()
}

// imgSrc 读取 <img> 标签的 src 属性
func imgSrc(tag string) string {
	z := html.NewTokenizer(strings.NewReader(tag))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			t := z.Token()
			if t.Data != "img" {
				continue
			}
			for _, a := range t.Attr {
				if a.Key == "src" {
					return strings.TrimSpace(a.Val)
				}
			}
			return ""
		}
	}
}

// stripSpaces 去掉所有空白，命令记号中不允许出现空格
func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
