package bank

import (
	"context"
	"sync"

	"github.com/nerdneilsfield/go-qbank-segmenter/pkg/segment"
	"go.uber.org/zap"
)

// SegmentedRow 切分后的题目
type SegmentedRow struct {
	Row          Row                         `json:"row"`
	Completeness Completeness                `json:"completeness"`
	Fields       map[Field]*segment.Document `json:"fields"`
}

// Counts 所有字段中各类片段的数量
func (r *SegmentedRow) Counts() map[segment.Kind]int {
	counts := make(map[segment.Kind]int)
	for _, doc := range r.Fields {
		for k, n := range doc.CountByKind() {
			counts[k] += n
		}
	}
	return counts
}

// Processor 并发切分题库
type Processor struct {
	segmenter   *segment.Segmenter
	concurrency int
	logger      *zap.Logger
}

// NewProcessor 创建处理器，concurrency 小于 1 时按 1 处理
func NewProcessor(s *segment.Segmenter, concurrency int, logger *zap.Logger) *Processor {
	if s == nil {
		s = segment.New()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{segmenter: s, concurrency: concurrency, logger: logger}
}

// ProcessRow 切分一道题目的所有内容字段
func (p *Processor) ProcessRow(row Row) SegmentedRow {
	fields := make(map[Field]*segment.Document, len(ContentFields))
	for _, f := range ContentFields {
		fields[f] = p.segmenter.Segment(row.Get(f))
	}
	return SegmentedRow{
		Row:          row,
		Completeness: CheckCompleteness(row),
		Fields:       fields,
	}
}

// Process 并发切分所有题目，结果与输入顺序一致。ctx 取消时返回已完成的部分和 ctx 的错误
func (p *Processor) Process(ctx context.Context, rows []Row) ([]SegmentedRow, error) {
	results := make([]SegmentedRow, len(rows))
	if len(rows) == 0 {
		return results, nil
	}

	var wg sync.WaitGroup
	// 限制并发数
	semaphore := make(chan struct{}, p.concurrency)

	for i := range rows {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return results[:i], err
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return results[:i], ctx.Err()
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-semaphore }()
			results[idx] = p.ProcessRow(rows[idx])
		}(i)
	}

	wg.Wait()
	p.logger.Debug("题库切分完成",
		zap.Int("rows", len(rows)),
		zap.Int("concurrency", p.concurrency))
	return results, nil
}
