package segment

import (
	"strings"

	"go.uber.org/zap"
)

// Candidates 返回所有规则在 text 上的原始匹配（调度之前），按规则顺序排列
func (s *Segmenter) Candidates(text string) []Candidate {
	var out []Candidate
	for order, rule := range s.rules {
		matches, err := findAll(rule.pattern, text)
		if err != nil {
			// 超时只丢弃该规则剩余的匹配
			s.logger.Debug("规则匹配中断",
				zap.String("rule", rule.Name),
				zap.Int("found", len(matches)),
				zap.Error(err))
		}
		for _, m := range matches {
			content := rule.extract(m)
			if rule.accept != nil && !rule.accept(s.classifier, content) {
				continue
			}
			out = append(out, Candidate{
				Span:    Span{Start: m.Index, End: m.Index + m.Length},
				Rule:    rule.Name,
				Order:   order,
				Raw:     m.String(),
				Content: content,
				class:   rule.class,
			})
		}
	}
	return out
}

// Tokenize 将一段已规范化的文本切分为有序的片段序列。
// 区间之间含非空白字符的间隙输出为文本片段，纯空白间隙丢弃
func (s *Segmenter) Tokenize(text string) []Segment {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	candidates := s.Candidates(text)
	accepted := Schedule(candidates)

	s.logger.Debug("切分完成",
		zap.Int("runes", len([]rune(text))),
		zap.Int("candidates", len(candidates)),
		zap.Int("accepted", len(accepted)))

	runes := []rune(text)
	segments := make([]Segment, 0, 2*len(accepted)+1)
	last := 0
	for _, c := range accepted {
		if gap := string(runes[last:c.Start]); strings.TrimSpace(gap) != "" {
			segments = append(segments, Segment{Kind: KindText, Value: gap, Span: Span{Start: last, End: c.Start}})
		}
		segments = append(segments, s.classify(c))
		last = c.End
	}
	if gap := string(runes[last:]); strings.TrimSpace(gap) != "" {
		segments = append(segments, Segment{Kind: KindText, Value: gap, Span: Span{Start: last, End: len(runes)}})
	}
	return segments
}

// classify 把一个已接受的候选转换为片段
func (s *Segmenter) classify(c Candidate) Segment {
	seg := Segment{Span: c.Span, Rule: c.Rule}
	switch {
	case c.class == classImageDirective || c.class == classImageURL:
		// 显式图片指令总是输出图片，空地址交给渲染端处理
		seg.Kind, seg.Value = KindImage, CanonicalImageURL(c.Content)
	case s.classifier.IsImageReference(c.Content):
		seg.Kind, seg.Value = KindImage, CanonicalImageURL(c.Content)
	case c.class == classDelimitedMath:
		body := strings.TrimSpace(c.Content)
		if body == "" {
			seg.Kind, seg.Value = KindText, c.Raw
			return seg
		}
		seg.Kind, seg.Value = KindMath, body
	case c.class == classPipe:
		if s.classifier.IsLikelyMath(c.Content) {
			seg.Kind, seg.Value = KindMath, c.Raw
		} else {
			seg.Kind, seg.Value = KindText, c.Raw
		}
	default:
		seg.Kind, seg.Value = KindMath, stripSpaces(c.Raw)
	}
	return seg
}
