package segment

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// DefaultImageHosts 已知的图床/网盘前缀（不含协议）
var DefaultImageHosts = []string{
	"i.imgur.com/",
	"imgur.com/",
	"cdn.mathpix.com/",
	"drive.google.com/file/d/",
	"drive.google.com/uc?",
	"drive.google.com/open?",
	"lh3.googleusercontent.com/",
	"res.cloudinary.com/",
	"images.unsplash.com/",
	"i.ibb.co/",
	"i.postimg.cc/",
	"www.dropbox.com/s/",
	"dl.dropboxusercontent.com/",
}

// DefaultPlainTextMinLength 超过该长度且形似普通句子的文本不视为公式
const DefaultPlainTextMinLength = 30

// ClassifierConfig 分类器阈值，来自题库样本的经验值
type ClassifierConfig struct {
	PlainTextMinLength int
	ImageHosts         []string
}

// DefaultClassifierConfig 返回默认配置
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		PlainTextMinLength: DefaultPlainTextMinLength,
		ImageHosts:         copyHosts(DefaultImageHosts),
	}
}

// copyHosts 复制图床列表，nil 保持为 nil
func copyHosts(hosts []string) []string {
	if hosts == nil {
		return nil
	}
	out := make([]string, len(hosts))
	copy(out, hosts)
	return out
}

// Classifier 判断子串是图片引用还是公式
type Classifier struct {
	cfg   ClassifierConfig
	hosts []string
}

var (
	imageExtPattern = mustCompile(`^https?://\S+\.(?:jpe?g|png|gif|bmp|svg|webp)(?:\?\S*)?$`, regexp2.IgnoreCase)
	absoluteURL     = mustCompile(`^https?://\S+$`, regexp2.IgnoreCase)

	driveFilePattern = mustCompile(`^https?://(?:drive|docs)\.google\.com/(?:a/[^/]+/)?file/d/(?<id>[A-Za-z0-9_-]+)`, regexp2.IgnoreCase)
	driveQueryHost   = mustCompile(`^https?://(?:drive|docs)\.google\.com/(?:open|uc)\?`, regexp2.IgnoreCase)
	dropboxHost      = mustCompile(`^https?://(?:www\.)?dropbox\.com/`, regexp2.IgnoreCase)

	// 强信号：任意一个命中即视为公式
	mathStrongPatterns = []*regexp2.Regexp{
		mustCompile(`\\[a-zA-Z]+`, regexp2.None),
		mustCompile(`\{[^{}]*\}`, regexp2.None),
		mustCompile(`[_^]\{`, regexp2.None),
		mustCompile(`\\(?:frac|dfrac|sqrt|sum|prod|int|oint|lim|log|ln|text|mathrm|vec|hat|bar|overline|Delta|delta|infty|times|div|pm|cdot|leq|geq|neq)(?![a-zA-Z])`, regexp2.None),
		mustCompile(`\\left|\\right|\\\(|\\\)|\\\[|\\\]|\$`, regexp2.None),
	}

	// 普通句子：只有字母、空白和常见标点，或者字母、空白和等号
	plainSentencePattern = mustCompile(`^[A-Za-z\s.,;:!?'"()\-]+$|^[A-Za-z\s=]+$`, regexp2.None)

	// 弱信号：在没有排除为普通句子时才起作用
	mathWeakPatterns = []*regexp2.Regexp{
		mustCompile(`[=<>±√×÷^_+]`, regexp2.None),
		mustCompile(`[α-ωΑ-Ω∑∫∞≤≥≠π]`, regexp2.None),
	}

	// 数字字母相邻只对单个记号（2x、x2）有效，"Q1 first" 这类短语仍是文本
	digitLetterPattern = mustCompile(`\d[a-zA-Z]|[a-zA-Z]\d`, regexp2.None)
)

// NewClassifier 创建分类器，零值字段使用默认值
func NewClassifier(cfg ClassifierConfig) *Classifier {
	if cfg.PlainTextMinLength <= 0 {
		cfg.PlainTextMinLength = DefaultPlainTextMinLength
	}
	if cfg.ImageHosts == nil {
		cfg.ImageHosts = DefaultImageHosts
	}
	cfg.ImageHosts = copyHosts(cfg.ImageHosts)
	hosts := make([]string, 0, len(cfg.ImageHosts))
	for _, h := range cfg.ImageHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		h = strings.TrimPrefix(strings.TrimPrefix(h, "https://"), "http://")
		if h != "" {
			hosts = append(hosts, h)
		}
	}
	return &Classifier{cfg: cfg, hosts: hosts}
}

// Config 返回生效的配置
func (c *Classifier) Config() ClassifierConfig {
	cfg := c.cfg
	cfg.ImageHosts = copyHosts(c.cfg.ImageHosts)
	return cfg
}

// IsImageReference 判断 s 是否是图片地址
func (c *Classifier) IsImageReference(s string) bool {
	s = strings.TrimSpace(s)
	if !matchString(absoluteURL, s) {
		return false
	}
	if matchString(imageExtPattern, s) {
		return true
	}
	return c.hasImageHost(s)
}

func (c *Classifier) hasImageHost(s string) bool {
	lower := strings.ToLower(s)
	lower = strings.TrimPrefix(strings.TrimPrefix(lower, "https://"), "http://")
	for _, h := range c.hosts {
		if strings.HasPrefix(lower, h) {
			return true
		}
	}
	return false
}

// CanonicalImageURL 将网盘分享链接改写为可直接显示的地址，其他地址原样返回
func CanonicalImageURL(s string) string {
	s = strings.TrimSpace(s)

	if m, err := driveFilePattern.FindStringMatch(s); err == nil && m != nil {
		if id, ok := groupString(m, "id"); ok {
			return driveViewURL(id)
		}
	}

	if matchString(driveQueryHost, s) {
		if u, err := url.Parse(s); err == nil {
			if id := u.Query().Get("id"); id != "" {
				return driveViewURL(id)
			}
		}
	}

	if matchString(dropboxHost, s) {
		if u, err := url.Parse(s); err == nil {
			q := u.Query()
			q.Del("dl")
			q.Set("raw", "1")
			u.RawQuery = q.Encode()
			return u.String()
		}
	}

	return s
}

func driveViewURL(id string) string {
	return "https://drive.google.com/uc?export=view&id=" + id
}

// IsLikelyMath 判断 s 更像公式还是普通文本
func (c *Classifier) IsLikelyMath(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	for _, re := range mathStrongPatterns {
		if matchString(re, s) {
			return true
		}
	}

	// 长且形似普通句子时偏向文本
	if utf8.RuneCountInString(s) > c.cfg.PlainTextMinLength && matchString(plainSentencePattern, s) {
		return false
	}

	for _, re := range mathWeakPatterns {
		if matchString(re, s) {
			return true
		}
	}
	return !strings.ContainsAny(s, " \t\n\r") && matchString(digitLetterPattern, s)
}
