package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		question string
		want     Intent
	}{
		{"Do I have a certification voucher?", IntentVoucher},
		{"When is my exam?", IntentVoucher},
		{"voucher for the learning course", IntentVoucher},
		{"Any training on flows?", IntentLearning},
		{"Show me Trailhead modules", IntentLearning},
		{"which course should I take for my product", IntentLearning},
		{"list my products", IntentProduct},
		{"hello there", IntentGeneral},
		{"", IntentGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.question))
		})
	}
}

func TestClassify_CaseInsensitiveAndIdempotent(t *testing.T) {
	questions := []string{"VOUCHER status", "Learning Materials", "My PRODUCTS", "What's new?"}
	for _, q := range questions {
		first := Classify(q)
		assert.Equal(t, first, Classify(q))
		assert.Equal(t, first, Classify(strings.ToLower(q)))
		assert.Equal(t, first, Classify(strings.ToUpper(q)))
	}
}
