package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(s string) string { return s }

func TestMatch_SubstringHitsWin(t *testing.T) {
	names := []string{
		"Salesforce Administrator Certification Voucher",
		"Platform Developer I Voucher",
		"AI Associate Voucher",
	}

	got := Match(names, identity, []string{"developer"}, 0.6, 3)
	assert.Equal(t, []string{"Platform Developer I Voucher"}, got)

	// "xyzz" 本可能触发模糊匹配，但只要有子串命中就不会走模糊
	got = Match(names, identity, []string{"admin", "xyzz"}, 0.6, 3)
	assert.Equal(t, []string{"Salesforce Administrator Certification Voucher"}, got)
}

func TestMatch_SubstringResultsAreSubsetOfHits(t *testing.T) {
	names := []string{"Flow Basics", "Apex Triggers", "Flow Builder Advanced", "Reports & Dashboards"}
	keywords := []string{"flow", "dash"}

	got := Match(names, identity, keywords, 0.6, 3)
	require.NotEmpty(t, got)
	for _, n := range got {
		lower := strings.ToLower(n)
		hit := false
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				hit = true
			}
		}
		assert.True(t, hit, "%q should contain a keyword", n)
	}
	assert.Len(t, got, 3)
}

func TestMatch_CaseInsensitive(t *testing.T) {
	got := Match([]string{"FLOW BASICS"}, identity, []string{"Flow"}, 0.6, 3)
	assert.Equal(t, []string{"FLOW BASICS"}, got)
}

func TestMatch_FuzzyFallbackOnlyWithoutSubstringHits(t *testing.T) {
	names := []string{"Flow Basics", "Apex Triggers"}

	got := Match(names, identity, []string{"flwo", "basiks"}, 0.6, 3)
	assert.Equal(t, []string{"Flow Basics"}, got)
}

func TestMatch_NoKeywordsOrNoHits(t *testing.T) {
	names := []string{"Flow Basics"}
	assert.Empty(t, Match(names, identity, nil, 0.6, 3))
	assert.Empty(t, Match(names, identity, []string{""}, 0.6, 3))
	assert.Empty(t, Match(names, identity, []string{"quantum"}, 0.6, 3))
	assert.Empty(t, Match([]string{}, identity, []string{"flow"}, 0.6, 3))
}

func TestMatchFuzzy_CapsAndRanks(t *testing.T) {
	names := []string{"voucher alpha", "voucher alphb", "voucher alphc", "voucher alphd", "unrelated"}

	got := matchFuzzy(names, identity, []string{"voucher alph"}, 0.6, 3)
	assert.Equal(t, []string{"voucher alphd", "voucher alphc", "voucher alphb"}, got)
}

func TestMatchFuzzy_KeepsItemsSharingAName(t *testing.T) {
	type item struct{ name, level string }
	items := []item{{"Flow Basics", "Beginner"}, {"Flow Basics", "Advanced"}, {"Apex", "Beginner"}}

	got := matchFuzzy(items, func(i item) string { return i.name }, []string{"flow basic"}, 0.6, 1)
	require.Len(t, got, 2)
	assert.Equal(t, "Beginner", got[0].level)
	assert.Equal(t, "Advanced", got[1].level)
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, similarity("sales cloud", "sales cloud"), 1e-9)
	assert.InDelta(t, 0.818, similarity("flow basics", "flwo basiks"), 0.001)
	assert.InDelta(t, 0.0, similarity("abc", "xyz"), 1e-9)
}
