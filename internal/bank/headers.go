package bank

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// headerAliases 表头别名，按优先级排列。匹配前统一转小写并压缩空白
var headerAliases = []struct {
	alias string
	field Field
}{
	{"serial number", FieldSerialNumber},
	{"q.no", FieldSerialNumber},
	{"question", FieldQuestion},
	{"option a", FieldOptionA},
	{"option b", FieldOptionB},
	{"option c", FieldOptionC},
	{"option d", FieldOptionD},
	{"answers", FieldAnswers},
	{"correct option", FieldAnswers},
	{"question type", FieldQnType},
	{"topic", FieldTopic},
	{"chapter", FieldChapter},
	{"subject", FieldSubject},
	{"exam", FieldExam},
	// 导出数据自身的键
	{"serialnumber", FieldSerialNumber},
	{"optiona", FieldOptionA},
	{"optionb", FieldOptionB},
	{"optionc", FieldOptionC},
	{"optiond", FieldOptionD},
	{"qntype", FieldQnType},
}

// HeaderMapper 将表头映射到字段
type HeaderMapper struct {
	fuzzy   bool
	aliases []string
}

// NewHeaderMapper 创建映射器。fuzzy 为 true 时对未知表头做模糊匹配
func NewHeaderMapper(fuzzyMatch bool) *HeaderMapper {
	aliases := make([]string, len(headerAliases))
	for i, a := range headerAliases {
		aliases[i] = a.alias
	}
	return &HeaderMapper{fuzzy: fuzzyMatch, aliases: aliases}
}

// Resolve 返回表头对应的字段
func (m *HeaderMapper) Resolve(header string) (Field, bool) {
	key := normalizeHeader(header)
	if key == "" {
		return "", false
	}
	for _, a := range headerAliases {
		if a.alias == key {
			return a.field, true
		}
	}
	if !m.fuzzy {
		return "", false
	}
	return m.resolveFuzzy(key)
}

// resolveFuzzy 表头是别名的缩写（"ques"）或别名出现在表头中（"question text"）时匹配。
// 距离最小的别名胜出，多个不同字段距离相同时视为无法判断
func (m *HeaderMapper) resolveFuzzy(key string) (Field, bool) {
	best := -1
	var field Field
	ambiguous := false

	consider := func(idx, distance int) {
		f := headerAliases[idx].field
		switch {
		case best < 0 || distance < best:
			best, field, ambiguous = distance, f, false
		case distance == best && f != field:
			ambiguous = true
		}
	}

	for _, r := range fuzzy.RankFindNormalizedFold(key, m.aliases) {
		consider(r.OriginalIndex, r.Distance)
	}
	for i, alias := range m.aliases {
		if fuzzy.MatchNormalizedFold(alias, key) {
			consider(i, fuzzy.LevenshteinDistance(alias, key))
		}
	}

	if best < 0 || ambiguous {
		return "", false
	}
	return field, true
}

// normalizeHeader 小写，除字母、数字和点号外的字符视为空白
func normalizeHeader(header string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' {
			return unicode.ToLower(r)
		}
		return ' '
	}, header)
	return strings.Join(strings.Fields(mapped), " ")
}

// RowFromRecord 按表头把一条记录转换为题目。同一字段出现多列时，第一个非空值生效
func (m *HeaderMapper) RowFromRecord(headers, values []string) Row {
	var row Row
	for i, h := range headers {
		if i >= len(values) {
			break
		}
		f, ok := m.Resolve(h)
		if !ok || !row.IsBlank(f) {
			continue
		}
		row.Set(f, strings.TrimSpace(values[i]))
	}
	return row
}

// RowFromMap 与 RowFromRecord 相同，输入为 JSON 对象。按别名优先级处理键
func (m *HeaderMapper) RowFromMap(record map[string]any) Row {
	headers := make([]string, 0, len(record))
	values := make([]string, 0, len(record))

	// 精确别名优先，保证 "Serial Number" 先于 "Q.No"
	seen := make(map[string]bool, len(record))
	for _, a := range headerAliases {
		for k, v := range record {
			if seen[k] || normalizeHeader(k) != a.alias {
				continue
			}
			seen[k] = true
			headers = append(headers, k)
			values = append(values, stringify(v))
		}
	}
	keys := make([]string, 0, len(record))
	for k := range record {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		headers = append(headers, k)
		values = append(values, stringify(record[k]))
	}

	return m.RowFromRecord(headers, values)
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
