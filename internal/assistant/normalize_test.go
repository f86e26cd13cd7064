package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold and emoji", "**Hello** 🚀 there", "Hello  there"},
		{"headings and bullets", "## Title\n* one\n+ two\n- three", "Title\n- one\n- two\n- three"},
		{"code spans", "Use `Flow Builder` here", "Use Flow Builder here"},
		{"blank lines collapse", "a\n\n\n\n\nb", "a\n\nb"},
		{"crlf and trailing space", "a  \r\nb\t", "a\nb"},
		{"plain text untouched", "Sales Cloud is a CRM.", "Sales Cloud is a CRM."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in))
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	stop := map[string]struct{}{"about": {}, "tell": {}}
	got := extractKeywords("Tell me about Flow basics, flow!", stop, 2)
	assert.Equal(t, []string{"flow", "basics"}, got)
}

func TestToHTML_EscapesMarkup(t *testing.T) {
	assert.Equal(t, "a &lt;b&gt;<br>c", toHTML("a <b>\nc"))
}
