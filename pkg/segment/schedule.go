package segment

import "sort"

// Candidate 某条规则在文本中的一次匹配
type Candidate struct {
	Span
	Rule    string
	Order   int    // 规则的发现顺序
	Raw     string // 完整匹配文本
	Content string // 规则提取的载荷

	class ruleClass
}

// Schedule 区间调度：按起点升序（起点相同按规则顺序）扫描，
// 只接受起点不早于上一个已接受区间终点的候选，与之重叠的候选直接丢弃。
// 返回的候选互不重叠且按起点有序
func Schedule(candidates []Candidate) []Candidate {
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].Order < sorted[j].Order
	})

	accepted := make([]Candidate, 0, len(sorted))
	lastEnd := 0
	for _, c := range sorted {
		if c.End <= c.Start || c.Start < lastEnd {
			continue
		}
		accepted = append(accepted, c)
		lastEnd = c.End
	}
	return accepted
}
