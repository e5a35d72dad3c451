// Package segment 将题库单元格中的混合内容（文本、公式、图片）切分为有序的片段。
//
// 引擎是纯函数：任何输入都会返回结果，畸形标记退化为文本，不返回错误。
package segment

import (
	"go.uber.org/zap"
)

// Segmenter 组合规范化器、分类器和切分规则。创建后不可变，可并发使用
type Segmenter struct {
	normalizer *Normalizer
	classifier *Classifier
	rules      []*Rule
	logger     *zap.Logger
}

type options struct {
	logger     *zap.Logger
	classifier ClassifierConfig
	escapes    map[string]string
}

// Option 配置 Segmenter
type Option func(*options)

// WithLogger 设置日志记录器，默认不输出
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClassifierConfig 替换分类器配置
func WithClassifierConfig(cfg ClassifierConfig) Option {
	return func(o *options) {
		cfg.ImageHosts = copyHosts(cfg.ImageHosts)
		o.classifier = cfg
	}
}

// WithPlainTextMinLength 设置普通句子判定的长度阈值
func WithPlainTextMinLength(n int) Option {
	return func(o *options) {
		o.classifier.PlainTextMinLength = n
	}
}

// WithImageHosts 追加图床前缀
func WithImageHosts(hosts ...string) Option {
	return func(o *options) {
		merged := make([]string, 0, len(o.classifier.ImageHosts)+len(hosts))
		merged = append(merged, o.classifier.ImageHosts...)
		o.classifier.ImageHosts = append(merged, hosts...)
	}
}

// WithEscapes 追加符号转义，键为命令名（可带反斜杠）
func WithEscapes(escapes map[string]string) Option {
	return func(o *options) {
		if o.escapes == nil {
			o.escapes = make(map[string]string, len(escapes))
		}
		for k, v := range escapes {
			o.escapes[k] = v
		}
	}
}

// New 创建 Segmenter
func New(opts ...Option) *Segmenter {
	o := &options{
		logger:     zap.NewNop(),
		classifier: DefaultClassifierConfig(),
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Segmenter{
		normalizer: NewNormalizer(o.escapes),
		classifier: NewClassifier(o.classifier),
		rules:      defaultRules(),
		logger:     o.logger,
	}
}

// Normalize 规范化原始文本
func (s *Segmenter) Normalize(raw string) string {
	return s.normalizer.Normalize(raw)
}

// Normalizer 返回使用的规范化器
func (s *Segmenter) Normalizer() *Normalizer {
	return s.normalizer
}

// Classifier 返回使用的分类器
func (s *Segmenter) Classifier() *Classifier {
	return s.classifier
}

// IsLikelyMath 见 Classifier.IsLikelyMath
func (s *Segmenter) IsLikelyMath(text string) bool {
	return s.classifier.IsLikelyMath(text)
}

// IsImageReference 见 Classifier.IsImageReference
func (s *Segmenter) IsImageReference(text string) bool {
	return s.classifier.IsImageReference(text)
}

// RuleNames 按发现顺序返回规则名称
func (s *Segmenter) RuleNames() []string {
	names := make([]string, len(s.rules))
	for i, r := range s.rules {
		names[i] = r.Name
	}
	return names
}

var defaultSegmenter = New()

// Parse 使用默认配置切分一个单元格
func Parse(raw string) *Document {
	return defaultSegmenter.Segment(raw)
}

// Tokenize 使用默认配置切分已规范化的文本
func Tokenize(text string) []Segment {
	return defaultSegmenter.Tokenize(text)
}

// Normalize 使用默认配置规范化文本
func Normalize(raw string) string {
	return defaultSegmenter.Normalize(raw)
}

// IsLikelyMath 使用默认阈值判断文本是否像公式
func IsLikelyMath(text string) bool {
	return defaultSegmenter.IsLikelyMath(text)
}

// IsImageReference 使用默认图床列表判断文本是否为图片地址
func IsImageReference(text string) bool {
	return defaultSegmenter.IsImageReference(text)
}
