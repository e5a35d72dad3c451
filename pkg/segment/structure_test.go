package segment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEnumerate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
		want EnumerateBlock
	}{
		{
			name: "simple",
			in:   `Consider:\begin{enumerate}\item First \item Second\end{enumerate}Done.`,
			ok:   true,
			want: EnumerateBlock{
				Before: "Consider:",
				Items:  []Item{{Text: "First"}, {Text: "Second"}},
				After:  "Done.",
			},
		},
		{
			name: "explicit labels",
			in:   "\\begin{enumerate}\n\\item[(a)] red\n\\item[(b)] blue\n\\end{enumerate}",
			ok:   true,
			want: EnumerateBlock{
				Items: []Item{{Label: "(a)", Text: "red"}, {Label: "(b)", Text: "blue"}},
			},
		},
		{
			name: "empty items dropped",
			in:   `\begin{enumerate}\item \item   only\end{enumerate}`,
			ok:   true,
			want: EnumerateBlock{Items: []Item{{Text: "only"}}},
		},
		{
			name: "spaced environment name",
			in:   `\begin {enumerate}\item x\end {enumerate}`,
			ok:   true,
			want: EnumerateBlock{Items: []Item{{Text: "x"}}},
		},
		{
			name: "itemize is not matched",
			in:   `\begin{itemize}\item x\end{itemize}`,
			ok:   false,
		},
		{
			name: "unterminated",
			in:   `\begin{enumerate}\item x`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractEnumerate(tt.in)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExtractAssertionReason(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
		want AssertionReason
	}{
		{
			name: "labelled",
			in:   "Assertion (A): The sky is blue. Reason (R): Light scatters.",
			ok:   true,
			want: AssertionReason{Assertion: "The sky is blue.", Reason: "Light scatters."},
		},
		{
			name: "case insensitive without markers",
			in:   "ASSERTION x is even REASON x = 2k",
			ok:   true,
			want: AssertionReason{Assertion: "x is even", Reason: "x = 2k"},
		},
		{
			name: "lead text",
			in:   "Q1. Assertion: A holds.\nReason: B holds.",
			ok:   true,
			want: AssertionReason{Lead: "Q1.", Assertion: "A holds.", Reason: "B holds."},
		},
		{
			name: "missing reason",
			in:   "Assertion: only one part",
			ok:   false,
		},
		{
			name: "empty assertion",
			in:   "Assertion: Reason: something",
			ok:   false,
		},
		{
			name: "word inside another word",
			in:   "Reassertions need reasons",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractAssertionReason(tt.in)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseEnumerate(t *testing.T) {
	doc := New().Segment(`Consider:\begin{enumerate}\item First \item Second\end{enumerate}Done.`)

	require.Len(t, doc.Blocks, 4)
	assert.Equal(t, Block{Role: RoleBody, Segments: []Segment{Text("Consider:")}}, stripBlock(doc.Blocks[0]))
	assert.Equal(t, Block{Role: RoleItem, Index: 1, Label: "1.", Segments: []Segment{Text("First")}}, stripBlock(doc.Blocks[1]))
	assert.Equal(t, Block{Role: RoleItem, Index: 2, Label: "2.", Segments: []Segment{Text("Second")}}, stripBlock(doc.Blocks[2]))
	assert.Equal(t, Block{Role: RoleBody, Segments: []Segment{Text("Done.")}}, stripBlock(doc.Blocks[3]))

	assert.Equal(t, []Segment{Text("Consider:"), Text("First"), Text("Second"), Text("Done.")}, payloads(doc.Segments()))
}

func TestParseEnumerateItemContent(t *testing.T) {
	doc := New().Segment(`\begin{enumerate}\item[(i)] $x^2$ is even\item ![p](https://i.imgur.com/p.png)\end{enumerate}`)

	require.Len(t, doc.Blocks, 2)
	assert.Equal(t, "(i)", doc.Blocks[0].Label)
	assert.Equal(t, []Segment{Math("x^2"), Text(" is even")}, payloads(doc.Blocks[0].Segments))
	assert.Equal(t, "2.", doc.Blocks[1].Label)
	assert.Equal(t, []Segment{Image("https://i.imgur.com/p.png")}, payloads(doc.Blocks[1].Segments))
}

func TestParseAssertionReason(t *testing.T) {
	doc := New().Segment("Assertion (A): The sky is blue. Reason (R): Light scatters.")

	require.Len(t, doc.Blocks, 2)
	assert.Equal(t, Block{Role: RoleAssertion, Label: AssertionLabel, Segments: []Segment{Text("The sky is blue.")}}, stripBlock(doc.Blocks[0]))
	assert.Equal(t, Block{Role: RoleReason, Label: ReasonLabel, Segments: []Segment{Text("Light scatters.")}}, stripBlock(doc.Blocks[1]))
}

func TestParseAssertionReasonWithLead(t *testing.T) {
	doc := New().Segment(`Read carefully. Assertion: $a > 0$ Reason: $a^2 > 0$`)

	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, RoleBody, doc.Blocks[0].Role)
	assert.Equal(t, []Segment{Text("Read carefully.")}, payloads(doc.Blocks[0].Segments))
	assert.Equal(t, []Segment{Math("a > 0")}, payloads(doc.Blocks[1].Segments))
	assert.Equal(t, []Segment{Math("a^2 > 0")}, payloads(doc.Blocks[2].Segments))
}

func TestParseBody(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Segment
	}{
		{
			name: "dollar math",
			in:   `The area is $A = \pi r^2$ square units.`,
			want: []Segment{Text("The area is "), Math(`A = \pi r^2`), Text(" square units.")},
		},
		{
			name: "normalization before tokenizing",
			in:   `If x \textgreater{} 2, fill \_\_\_\_`,
			want: []Segment{Text("If x > 2, fill __")},
		},
		{
			name: "command spacing removes space before command",
			in:   `Find \frac {a}{b} now`,
			want: []Segment{Text("Find"), Math(`\frac{a}{b}`), Text(" now")},
		},
		{
			name: "drive link",
			in:   `See \includegraphics[width=3cm]{https://drive.google.com/file/d/ABC123/view?usp=sharing}`,
			want: []Segment{Text("See "), Image("https://drive.google.com/uc?export=view&id=ABC123")},
		},
		{
			name: "unescaped dollars pair up",
			in:   `It costs \$5 and \$6`,
			want: []Segment{Text("It costs "), Math("5 and"), Text("6")},
		},
	}

	s := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := s.Segment(tt.in)
			require.Len(t, doc.Blocks, 1)
			assert.Equal(t, RoleBody, doc.Blocks[0].Role)
			assert.Equal(t, tt.want, payloads(doc.Blocks[0].Segments))
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		doc := New().Segment(in)
		require.NotNil(t, doc)
		assert.True(t, doc.IsEmpty())
		assert.Empty(t, doc.Blocks)
		assert.Equal(t, in, doc.Source)
	}
}

func TestDocumentJSON(t *testing.T) {
	doc := Parse("Assertion: $x$ Reason: y")

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"role":"assertion"`)
	assert.Contains(t, string(data), `"label":"Assertion:"`)
	assert.Contains(t, string(data), `"kind":"math"`)
	assert.Contains(t, string(data), `"rule":"inline-dollar"`)

	counts := doc.CountByKind()
	assert.Equal(t, 1, counts[KindMath])
	assert.Equal(t, 1, counts[KindText])
}

func TestKindText(t *testing.T) {
	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("IMAGE")))
	assert.Equal(t, KindImage, k)
	assert.Error(t, k.UnmarshalText([]byte("video")))

	_, err := Kind(42).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "unknown", Kind(42).String())
}

func stripBlock(b Block) Block {
	b.Segments = payloads(b.Segments)
	return b
}
