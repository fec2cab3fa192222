package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "monthly rent", NormalizeLabel("monthlyRent"))
	assert.Equal(t, "1500 month", NormalizeLabel("$1500/month"))
	assert.Equal(t, "security deposit", NormalizeLabel("security_deposit"))
	assert.Equal(t, "rent paid", NormalizeLabel("RentPaid"))
	assert.Equal(t, "", NormalizeLabel("  ...  "))
}

func TestLexicalSimilarity_Identical(t *testing.T) {
	assert.Equal(t, 1.0, LexicalSimilarity("monthlyRent", "monthly_rent"))
	assert.Equal(t, 1.0, LexicalSimilarity("Tenant", "tenant"))
}

func TestLexicalSimilarity_SharedRoot(t *testing.T) {
	// "monthlyRent" vs "$1500/month": only "month"/"monthly" relate, by
	// shared root, so overlap is 0.75 over 2 tokens.
	sim := LexicalSimilarity("monthlyRent", "$1500/month")
	assert.InDelta(t, 0.375, sim, 0.01)
}

func TestLexicalSimilarity_Disjoint(t *testing.T) {
	sim := LexicalSimilarity("landlord", "securityDeposit")
	assert.Less(t, sim, 0.3)
}

func TestLexicalSimilarity_Empty(t *testing.T) {
	assert.Equal(t, 0.0, LexicalSimilarity("", "rent"))
	assert.Equal(t, 0.0, LexicalSimilarity("rent", ""))
}

func TestTokens_DropsStopwords(t *testing.T) {
	assert.Equal(t, []string{"first", "month"}, Tokens("the first of the month"))
}
