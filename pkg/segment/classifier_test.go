package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsImageReference(t *testing.T) {
	c := NewClassifier(DefaultClassifierConfig())

	tests := []struct {
		input string
		want  bool
	}{
		{"https://example.com/a.png", true},
		{"https://example.com/a.PNG", true},
		{"http://example.com/dir/figure.jpeg?size=2", true},
		{"https://example.com/a.webp", true},
		{"https://i.imgur.com/abc", true},
		{"https://cdn.mathpix.com/cropped/2024_01_01_abc", true},
		{"https://drive.google.com/file/d/ABC123/view", true},
		{"  https://example.com/a.svg  ", true},
		{"https://example.com/page", false},
		{"https://drive.google.com/drive/folders/xyz", false},
		{"figure.png", false},
		{"ftp://example.com/a.png", false},
		{"see https://example.com/a.png", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsImageReference(tt.input))
		})
	}
}

func TestClassifierCustomHosts(t *testing.T) {
	c := NewClassifier(ClassifierConfig{ImageHosts: []string{"https://Static.Example.org/"}})

	assert.True(t, c.IsImageReference("https://static.example.org/q1"))
	// 自定义列表替换默认列表
	assert.False(t, c.IsImageReference("https://i.imgur.com/abc"))
	assert.Equal(t, DefaultPlainTextMinLength, c.Config().PlainTextMinLength)
}

func TestCanonicalImageURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "drive file",
			input: "https://drive.google.com/file/d/ABC123/view?usp=sharing",
			want:  "https://drive.google.com/uc?export=view&id=ABC123",
		},
		{
			name:  "drive open",
			input: "https://drive.google.com/open?id=XYZ_9-a",
			want:  "https://drive.google.com/uc?export=view&id=XYZ_9-a",
		},
		{
			name:  "drive uc download",
			input: "https://drive.google.com/uc?id=XYZ&export=download",
			want:  "https://drive.google.com/uc?export=view&id=XYZ",
		},
		{
			name:  "dropbox",
			input: "https://www.dropbox.com/s/abc/fig.png?dl=0",
			want:  "https://www.dropbox.com/s/abc/fig.png?raw=1",
		},
		{
			name:  "other",
			input: "https://example.com/a.png?x=1",
			want:  "https://example.com/a.png?x=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalImageURL(tt.input))
		})
	}
}

func TestIsLikelyMath(t *testing.T) {
	c := NewClassifier(DefaultClassifierConfig())

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"命令", `\alpha`, true},
		{"花括号", "x_{1} + x_{2}", true},
		{"分式", `\frac{a}{b}`, true},
		{"定界符", `\left( x \right)`, true},
		{"美元符号", "$x$", true},
		{"运算符", "x + y", true},
		{"短等式", "a = b", true},
		{"数字字母相邻", "2x", true},
		{"带编号的短语", "Q1 first", false},
		{"带编号和运算符的短语", "Q1 + 2", true},
		{"希腊字母", "α", true},
		{"单词", "yes", false},
		{"斜杠", "yes/no", false},
		{"普通长句", "This is a perfectly normal sentence, isn't it?", false},
		{"带等号的长句", "The value of the answer is equal to = the other", false},
		{"长句但有命令", `This sentence is long enough but has \alpha inside`, true},
		{"空白", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsLikelyMath(tt.input))
		})
	}
}

func TestIsLikelyMathThreshold(t *testing.T) {
	c := NewClassifier(ClassifierConfig{PlainTextMinLength: 5})
	assert.False(t, c.IsLikelyMath("Pay attention = focus"))

	assert.True(t, NewClassifier(DefaultClassifierConfig()).IsLikelyMath("Pay attention = focus"))
}
