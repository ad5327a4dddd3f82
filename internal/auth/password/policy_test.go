package password

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upeonet/mtandao/internal/config"
)

func testPolicy() *Policy {
	return NewPolicy(config.PasswordConfig{
		MinLength:       8,
		RequireUpper:    true,
		RequireLower:    true,
		RequireDigit:    true,
		GeneratedLength: 12,
	})
}

func TestValidate(t *testing.T) {
	policy := testPolicy()

	assert.Empty(t, policy.Validate("Str0ngPass"))

	issues := policy.Validate("short")
	assert.Contains(t, issues, "too_short")
	assert.Contains(t, issues, "missing_uppercase")
	assert.Contains(t, issues, "missing_digit")

	assert.Contains(t, policy.Validate("alllowercase1"), "missing_uppercase")
	assert.Contains(t, policy.Validate("ALLUPPERCASE1"), "missing_lowercase")
	assert.Contains(t, policy.Validate("NoDigitsHere"), "missing_digit")
}

func TestValidate_SymbolRequirement(t *testing.T) {
	policy := NewPolicy(config.PasswordConfig{
		MinLength:     8,
		RequireSymbol: true,
	})

	assert.Contains(t, policy.Validate("Plain1234"), "missing_symbol")
	assert.Empty(t, policy.Validate("Plain1234!"))
}

func TestStrength(t *testing.T) {
	policy := testPolicy()

	assert.Equal(t, 0, policy.Strength(""))

	// More character classes and length score higher.
	weak := policy.Strength("abcdef")
	mixed := policy.Strength("Abcdef12")
	long := policy.Strength("Abcdef12!xYz9#Qp")
	assert.Less(t, weak, mixed)
	assert.Less(t, mixed, long)

	// Well-known substrings are penalized.
	assert.Less(t, policy.Strength("Password123!"), policy.Strength("Pzssword123!"))

	// Repeated runs are penalized.
	assert.Less(t, policy.Strength("Aaaa1111bbbb"), policy.Strength("Axyk1574bqwz"))

	// Score stays inside 0-100.
	assert.GreaterOrEqual(t, policy.Strength("password"), 0)
	assert.LessOrEqual(t, policy.Strength("X9!aB7#cD2$eF5%gH1&"), 100)
}

func TestGenerate(t *testing.T) {
	policy := NewPolicy(config.PasswordConfig{
		MinLength:       8,
		RequireUpper:    true,
		RequireLower:    true,
		RequireDigit:    true,
		RequireSymbol:   true,
		GeneratedLength: 16,
	})

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		generated, err := policy.Generate()
		require.NoError(t, err)
		assert.Len(t, generated, 16)
		assert.Empty(t, policy.Validate(generated), "generated password must satisfy the policy: %q", generated)
		seen[generated] = true
	}
	// Random generation should not repeat across a handful of draws.
	assert.Greater(t, len(seen), 1)
}

func TestGenerate_ExcludesAmbiguousCharacters(t *testing.T) {
	policy := testPolicy()

	for i := 0; i < 10; i++ {
		generated, err := policy.Generate()
		require.NoError(t, err)
		for _, r := range generated {
			if unicode.IsDigit(r) {
				assert.NotContains(t, "01", string(r))
			}
			if unicode.IsUpper(r) {
				assert.NotContains(t, "IO", string(r))
			}
		}
	}
}

func TestHashAndVerify(t *testing.T) {
	hashed, err := Hash("CorrectHorse9")
	require.NoError(t, err)
	assert.NotEqual(t, "CorrectHorse9", hashed)

	assert.True(t, Verify("CorrectHorse9", hashed))
	assert.False(t, Verify("WrongHorse9", hashed))
	assert.False(t, Verify("CorrectHorse9", "not-a-hash"))
}
