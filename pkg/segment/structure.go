package segment

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

var (
	enumeratePattern = mustCompile(`\\begin\s*\{enumerate\}(?<content>[\s\S]*?)\\end\s*\{enumerate\}`, regexp2.None)
	itemPattern      = mustCompile(`\\item(?![a-zA-Z])[ \t]*(?:\[(?<label>[^\]\n]*)\])?`, regexp2.None)

	assertionReasonPattern = mustCompile(
		`^(?<lead>[\s\S]*?)\bAssertion\b\s*(?:\(\s*A\s*\))?\s*:?(?<assertion>[\s\S]*?)`+
			`\bReason\b\s*(?:\(\s*R\s*\))?\s*:?(?<reason>[\s\S]*)$`,
		regexp2.IgnoreCase)
)

// ExtractEnumerate 查找第一个 enumerate 环境，返回环境前后的文本和拆分后的条目
func ExtractEnumerate(text string) (EnumerateBlock, bool) {
	m, err := enumeratePattern.FindStringMatch(text)
	if err != nil || m == nil {
		return EnumerateBlock{}, false
	}

	runes := []rune(text)
	content, _ := groupString(m, "content")
	return EnumerateBlock{
		Before: strings.TrimSpace(string(runes[:m.Index])),
		Items:  splitItems(content),
		After:  strings.TrimSpace(string(runes[m.Index+m.Length:])),
	}, true
}

// splitItems 按 \item 拆分，丢弃空条目。\item[(a)] 的标签保留
func splitItems(content string) []Item {
	markers, _ := findAll(itemPattern, content)
	if len(markers) == 0 {
		if t := strings.TrimSpace(content); t != "" {
			return []Item{{Text: t}}
		}
		return nil
	}

	runes := []rune(content)
	var items []Item
	if head := strings.TrimSpace(string(runes[:markers[0].Index])); head != "" {
		items = append(items, Item{Text: head})
	}
	for i, m := range markers {
		end := len(runes)
		if i+1 < len(markers) {
			end = markers[i+1].Index
		}
		body := strings.TrimSpace(string(runes[m.Index+m.Length : end]))
		if body == "" {
			continue
		}
		label, _ := groupString(m, "label")
		items = append(items, Item{Label: strings.TrimSpace(label), Text: body})
	}
	return items
}

// ExtractAssertionReason 识别"Assertion ... Reason ..."复合题干，两部分都不能为空
func ExtractAssertionReason(text string) (AssertionReason, bool) {
	m, err := assertionReasonPattern.FindStringMatch(text)
	if err != nil || m == nil {
		return AssertionReason{}, false
	}
	lead, _ := groupString(m, "lead")
	assertion, _ := groupString(m, "assertion")
	reason, _ := groupString(m, "reason")

	ar := AssertionReason{
		Lead:      strings.TrimSpace(lead),
		Assertion: strings.TrimSpace(assertion),
		Reason:    strings.TrimSpace(reason),
	}
	if ar.Assertion == "" || ar.Reason == "" {
		return AssertionReason{}, false
	}
	return ar, true
}

// Segment 将一个原始单元格分解为带结构的文档。空输入返回空文档
func (s *Segmenter) Segment(raw string) *Document {
	return &Document{Source: raw, Blocks: s.segmentBlocks(raw)}
}

func (s *Segmenter) segmentBlocks(raw string) []Block {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}

	if eb, ok := ExtractEnumerate(text); ok {
		return s.enumerateBlocks(eb)
	}
	if ar, ok := ExtractAssertionReason(text); ok {
		return s.assertionBlocks(ar)
	}

	segments := s.Tokenize(strings.TrimSpace(s.normalizer.Normalize(text)))
	if len(segments) == 0 {
		return nil
	}
	return []Block{{Role: RoleBody, Segments: segments}}
}

func (s *Segmenter) enumerateBlocks(eb EnumerateBlock) []Block {
	blocks := s.segmentBlocks(eb.Before)
	for i, item := range eb.Items {
		label := item.Label
		if label == "" {
			label = fmt.Sprintf("%d.", i+1)
		}
		blocks = append(blocks, Block{
			Role:     RoleItem,
			Index:    i + 1,
			Label:    label,
			Segments: flatten(s.segmentBlocks(item.Text)),
		})
	}
	return append(blocks, s.segmentBlocks(eb.After)...)
}

func (s *Segmenter) assertionBlocks(ar AssertionReason) []Block {
	blocks := s.segmentBlocks(ar.Lead)
	blocks = append(blocks,
		Block{Role: RoleAssertion, Label: AssertionLabel, Segments: flatten(s.segmentBlocks(ar.Assertion))},
		Block{Role: RoleReason, Label: ReasonLabel, Segments: flatten(s.segmentBlocks(ar.Reason))},
	)
	return blocks
}

func flatten(blocks []Block) []Segment {
	if len(blocks) == 1 {
		return blocks[0].Segments
	}
	var out []Segment
	for _, b := range blocks {
		out = append(out, b.Segments...)
	}
	return out
}
