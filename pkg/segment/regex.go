package segment

import (
	"time"

	"github.com/dlclark/regexp2"
)

// DefaultMatchTimeout 单个模式的匹配超时。regexp2 是回溯引擎，
// 超时后按未匹配处理，保证任何输入都能返回
const DefaultMatchTimeout = 250 * time.Millisecond

// mustCompile 编译模式并设置超时
func mustCompile(expr string, opts regexp2.RegexOptions) *regexp2.Regexp {
	re := regexp2.MustCompile(expr, opts)
	re.MatchTimeout = DefaultMatchTimeout
	return re
}

// findAll 返回所有不重叠的匹配。出错时返回已找到的部分和错误
func findAll(re *regexp2.Regexp, s string) ([]*regexp2.Match, error) {
	var matches []*regexp2.Match
	m, err := re.FindStringMatch(s)
	for m != nil && err == nil {
		matches = append(matches, m)
		m, err = re.FindNextMatch(m)
	}
	return matches, err
}

// matchString 出错视为不匹配
func matchString(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	return err == nil && ok
}

// replaceAll 使用 regexp2 的替换语法（$1、${name}）替换全部匹配，出错时原样返回
func replaceAll(re *regexp2.Regexp, s, replacement string) string {
	out, err := re.Replace(s, replacement, -1, -1)
	if err != nil {
		return s
	}
	return out
}

// replaceFunc 按回调替换全部匹配，出错时原样返回
func replaceFunc(re *regexp2.Regexp, s string, fn func(m regexp2.Match) string) string {
	out, err := re.ReplaceFunc(s, fn, -1, -1)
	if err != nil {
		return s
	}
	return out
}

// groupString 返回命名分组的内容，分组未参与匹配时返回空串
func groupString(m *regexp2.Match, name string) (string, bool) {
	g := m.GroupByName(name)
	if g == nil || len(g.Captures) == 0 {
		return "", false
	}
	return g.String(), true
}
