package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var assigned = []string{"Sales Cloud", "Service Cloud", "Salesforce Admin"}

func TestProductResolver_Normalize(t *testing.T) {
	r := NewProductResolver(DefaultPolicy())

	cases := map[string]string{
		"Sales & Service!!":          "sales & service",
		"Sales and Service Cloud":    "sales & service cloud",
		"  Salesforce Administrator": "salesforce admin",
		"Brand-new   Product":        "brand new product",
		"":                           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, r.Normalize(in), in)
	}
}

func TestProductResolver_Resolve(t *testing.T) {
	r := NewProductResolver(DefaultPolicy())

	tests := []struct {
		name  string
		query string
		want  string
		ok    bool
	}{
		{"exact", "Sales Cloud", "Sales Cloud", true},
		{"exact ignoring punctuation", "service-cloud?", "Service Cloud", true},
		{"alias", "salesforce administrator", "Salesforce Admin", true},
		{"fuzzy", "sales clod", "Sales Cloud", true},
		{"substring ranked by similarity", "cloud", "Sales Cloud", true},
		{"unresolved", "quantum computing", "", false},
		{"empty", "   ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Resolve(assigned, tt.query)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProductResolver_AmpersandVariants(t *testing.T) {
	r := NewProductResolver(DefaultPolicy())

	got, ok := r.Resolve([]string{"Marketing & Commerce Cloud"}, "marketing and commerce cloud")
	assert.True(t, ok)
	assert.Equal(t, "Marketing & Commerce Cloud", got)
}

func TestProductResolver_ConfiguredAlias(t *testing.T) {
	p := DefaultPolicy()
	p.ProductAliases["sfdc"] = "salesforce"
	r := NewProductResolver(p)

	got, ok := r.Resolve([]string{"Salesforce"}, "SFDC")
	assert.True(t, ok)
	assert.Equal(t, "Salesforce", got)
}

func TestProductResolver_MentionedIn(t *testing.T) {
	r := NewProductResolver(DefaultPolicy())

	got, ok := r.MentionedIn(assigned, "How do I close a case in Service Cloud?")
	assert.True(t, ok)
	assert.Equal(t, "Service Cloud", got)

	_, ok = r.MentionedIn(assigned, "How is the weather?")
	assert.False(t, ok)
}
