package segment

import (
	"fmt"
	"strings"
)

// Kind 片段类型
type Kind int

const (
	KindText Kind = iota
	KindImage
	KindMath
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindMath:
		return "math"
	default:
		return "unknown"
	}
}

// MarshalText 实现 encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindText, KindImage, KindMath:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("invalid segment kind %d", int(k))
	}
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "text":
		*k = KindText
	case "image":
		*k = KindImage
	case "math":
		*k = KindMath
	default:
		return fmt.Errorf("unknown segment kind %q", string(b))
	}
	return nil
}

// Span 规范化文本中的区间，单位为 rune，左闭右开
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len 返回区间长度
func (s Span) Len() int {
	return s.End - s.Start
}

// Segment 渲染的最小单元
type Segment struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
	Span  Span   `json:"span"`
	Rule  string `json:"rule,omitempty"` // 产生该片段的规则，间隙文本为空
}

// Text 构造文本片段
func Text(value string) Segment {
	return Segment{Kind: KindText, Value: value}
}

// Math 构造公式片段
func Math(value string) Segment {
	return Segment{Kind: KindMath, Value: value}
}

// Image 构造图片片段
func Image(url string) Segment {
	return Segment{Kind: KindImage, Value: url}
}

// Role 块在题目中的角色
type Role int

const (
	RoleBody Role = iota
	RoleItem
	RoleAssertion
	RoleReason
)

func (r Role) String() string {
	switch r {
	case RoleBody:
		return "body"
	case RoleItem:
		return "item"
	case RoleAssertion:
		return "assertion"
	case RoleReason:
		return "reason"
	default:
		return "unknown"
	}
}

// MarshalText 实现 encoding.TextMarshaler
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// 断言/理由块的标签
const (
	AssertionLabel = "Assertion:"
	ReasonLabel    = "Reason:"
)

// Block 一组连续的片段。列表项、断言和理由各自成块
type Block struct {
	Role     Role      `json:"role"`
	Index    int       `json:"index,omitempty"` // 列表项序号，从 1 开始
	Label    string    `json:"label,omitempty"`
	Segments []Segment `json:"segments"`
}

// Document 单个单元格的切分结果
type Document struct {
	Source string  `json:"source"`
	Blocks []Block `json:"blocks"`
}

// Segments 按渲染顺序返回所有片段
func (d *Document) Segments() []Segment {
	if d == nil {
		return nil
	}
	var out []Segment
	for _, b := range d.Blocks {
		out = append(out, b.Segments...)
	}
	return out
}

// IsEmpty 是否没有任何片段
func (d *Document) IsEmpty() bool {
	return d == nil || len(d.Segments()) == 0
}

// CountByKind 统计各类片段数量
func (d *Document) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, s := range d.Segments() {
		counts[s.Kind]++
	}
	return counts
}

// Item 列表中的一项
type Item struct {
	Label string
	Text  string
}

// EnumerateBlock \begin{enumerate}...\end{enumerate} 区域
type EnumerateBlock struct {
	Before string
	Items  []Item
	After  string
}

// AssertionReason 断言/理由复合题干
type AssertionReason struct {
	Lead      string
	Assertion string
	Reason    string
}
