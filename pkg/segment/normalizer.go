package segment

import (
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/unicode/norm"
)

// BlankMarker 填空题横线的统一写法
const BlankMarker = "__"

// maxNormalizePasses 规则链最多重复执行的次数，直到输出不再变化
const maxNormalizePasses = 3

// DefaultEscapes 默认的符号转义表，键为不带反斜杠的命令名
var DefaultEscapes = map[string]string{
	"textgreater": ">",
	"textless":    "<",
	"textdegree":  "°",
}

// Step 一条独立的规范化规则
type Step struct {
	Name string
	// Protect 为 true 时规则不会改写 URL、图片指令和 HTML 标签内部
	Protect bool
	Apply   func(string) string
}

// Normalizer 按顺序执行一组规范化规则
type Normalizer struct {
	steps   []Step
	protect *regexp2.Regexp
}

var (
	bracketPairPattern     = mustCompile(`\{\[\}[ \t]*(.*?)[ \t]*\{\]\}`, regexp2.None)
	bracketTrailingPattern = mustCompile(`([A-Za-z0-9]+)\{\[\]\}`, regexp2.None)
	thinSpacePattern       = mustCompile(`(?:[ \t]*(?<!\\)\\[,;: ])+[ \t]*`, regexp2.None)
	spaceBeforeCmdPattern  = mustCompile(`[ \t]+(?=\\[a-zA-Z])`, regexp2.None)
	spaceAfterCmdPattern   = mustCompile(`(?<!\\)(\\[a-zA-Z]+)[ \t]+`, regexp2.None)
	escapedLiteralPattern  = mustCompile(`(?<!\\)\\([$&%])`, regexp2.None)
	operatorPattern        = mustCompile(`[ \t]*([=<>±√×÷]+)[ \t]*`, regexp2.None)
	blankPattern           = mustCompile(`(?:\\_){3,}`, regexp2.None)

	// 不允许被空白规则改写的区域
	protectedPattern = mustCompile(
		`\\includegraphics\s*(?:\[[^\]]*\])?\s*\{[^{}]*\}`+
			`|!\[[^\]]*\]\([^)]*\)`+
			`|<(?:img|span|div|a)\s[^<>]*>`+
			`|</?(?:br|sup|sub|b|i|u|em|strong|p|span|div|a)\s*/?>`+
			`|https?://[^\s<>"'|{}]+`,
		regexp2.IgnoreCase)

	loneBracketReplacer = strings.NewReplacer("{[}", "[", "{]}", "]")
)

// NewNormalizer 创建规范化器。extra 会合并进默认转义表，同名时覆盖默认值
func NewNormalizer(extra map[string]string) *Normalizer {
	escapes := make(map[string]string, len(DefaultEscapes)+len(extra))
	for k, v := range DefaultEscapes {
		escapes[k] = v
	}
	for k, v := range extra {
		escapes[strings.TrimPrefix(k, `\`)] = v
	}

	return &Normalizer{
		protect: protectedPattern,
		steps: []Step{
			{Name: "unicode-nfc", Apply: norm.NFC.String},
			{Name: "bracket-escapes", Apply: collapseBracketEscapes},
			{Name: "lone-brackets", Apply: loneBracketReplacer.Replace},
			{Name: "symbol-escapes", Apply: symbolEscapeStep(escapes)},
			{Name: "thin-spaces", Apply: collapseThinSpaces},
			{Name: "command-spacing", Protect: true, Apply: normalizeCommandSpacing},
			{Name: "escaped-literals", Apply: unescapeLiterals},
			{Name: "operator-spacing", Protect: true, Apply: spaceOperators},
			{Name: "fill-in-blanks", Apply: CollapseBlanks},
		},
	}
}

// Steps 返回规则链的副本
func (n *Normalizer) Steps() []Step {
	out := make([]Step, len(n.steps))
	copy(out, n.steps)
	return out
}

// Step 按名称查找规则
func (n *Normalizer) Step(name string) (Step, bool) {
	for _, s := range n.steps {
		if s.Name == name {
			return s, true
		}
	}
	return Step{}, false
}

// Normalize 执行全部规则。规则链重复执行直到输出稳定，保证幂等
func (n *Normalizer) Normalize(raw string) string {
	out := raw
	for pass := 0; pass < maxNormalizePasses; pass++ {
		next := n.applyOnce(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func (n *Normalizer) applyOnce(s string) string {
	for _, step := range n.steps {
		if step.Protect {
			s = n.applyOutsideProtected(s, step.Apply)
		} else {
			s = step.Apply(s)
		}
	}
	return s
}

// applyOutsideProtected 只对受保护区域之外的文本应用 fn
func (n *Normalizer) applyOutsideProtected(s string, fn func(string) string) string {
	matches, _ := findAll(n.protect, s)
	if len(matches) == 0 {
		return fn(s)
	}

	runes := []rune(s)
	var sb strings.Builder
	last := 0
	for _, m := range matches {
		if m.Index > last {
			sb.WriteString(fn(string(runes[last:m.Index])))
		}
		sb.WriteString(m.String())
		last = m.Index + m.Length
	}
	if last < len(runes) {
		sb.WriteString(fn(string(runes[last:])))
	}
	return sb.String()
}

func collapseBracketEscapes(s string) string {
	s = replaceAll(bracketPairPattern, s, "[$1]")
	return replaceAll(bracketTrailingPattern, s, "[$1]")
}

// symbolEscapeStep 生成命名符号转义规则，长名字优先匹配
func symbolEscapeStep(escapes map[string]string) func(string) string {
	if len(escapes) == 0 {
		return func(s string) string { return s }
	}
	names := make([]string, 0, len(escapes))
	for name := range escapes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = regexp2.Escape(name)
	}
	re := mustCompile(`\\(?<name>`+strings.Join(quoted, "|")+`)(?![a-zA-Z])(?:\{\})?`, regexp2.None)

	return func(s string) string {
		if !strings.Contains(s, `\`) {
			return s
		}
		return replaceFunc(re, s, func(m regexp2.Match) string {
			name, _ := groupString(&m, "name")
			return escapes[name]
		})
	}
}

func collapseThinSpaces(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return replaceAll(thinSpacePattern, s, " ")
}

// normalizeCommandSpacing 命令前不留空白，命令后的空白压缩为一个空格
func normalizeCommandSpacing(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	s = replaceAll(spaceBeforeCmdPattern, s, "")
	return replaceAll(spaceAfterCmdPattern, s, "$1 ")
}

func unescapeLiterals(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return replaceAll(escapedLiteralPattern, s, "$1")
}

func spaceOperators(s string) string {
	return replaceAll(operatorPattern, s, " $1 ")
}

// CollapseBlanks 将三个及以上转义下划线组成的填空横线替换为 BlankMarker
func CollapseBlanks(s string) string {
	if !strings.Contains(s, `\_`) {
		return s
	}
	return replaceAll(blankPattern, s, BlankMarker)
}
