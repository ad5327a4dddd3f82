package password

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"unicode"

	"github.com/upeonet/mtandao/internal/config"
)

// Policy validates candidate passwords against the configured rules and
// scores their strength. This is account hygiene, not a security boundary;
// the real protection is the Argon2id hash and the login lockout.
type Policy struct {
	minLength     int
	requireUpper  bool
	requireLower  bool
	requireDigit  bool
	requireSymbol bool
	generatedLen  int
}

var ErrTooWeak = errors.New("password does not meet policy")

// Substrings that immediately cap the strength score.
var commonSubstrings = []string{
	"password", "123456", "qwerty", "abc123", "letmein", "admin",
}

func NewPolicy(cfg config.PasswordConfig) *Policy {
	minLength := cfg.MinLength
	if minLength < 4 {
		minLength = 4
	}
	generatedLen := cfg.GeneratedLength
	if generatedLen < minLength {
		generatedLen = minLength
	}
	return &Policy{
		minLength:     minLength,
		requireUpper:  cfg.RequireUpper,
		requireLower:  cfg.RequireLower,
		requireDigit:  cfg.RequireDigit,
		requireSymbol: cfg.RequireSymbol,
		generatedLen:  generatedLen,
	}
}

// Validate returns the list of unmet policy rules, empty when the
// password passes.
func (p *Policy) Validate(password string) []string {
	var issues []string
	if len(password) < p.minLength {
		issues = append(issues, "too_short")
	}
	classes := classify(password)
	if p.requireUpper && !classes.upper {
		issues = append(issues, "missing_uppercase")
	}
	if p.requireLower && !classes.lower {
		issues = append(issues, "missing_lowercase")
	}
	if p.requireDigit && !classes.digit {
		issues = append(issues, "missing_digit")
	}
	if p.requireSymbol && !classes.symbol {
		issues = append(issues, "missing_symbol")
	}
	return issues
}

// Strength computes a coarse 0-100 score: length bonus, character-class
// bonuses, penalties for repeated runs and well-known substrings.
func (p *Policy) Strength(password string) int {
	if password == "" {
		return 0
	}

	score := 0

	length := len(password)
	switch {
	case length >= 16:
		score += 40
	case length >= 12:
		score += 30
	case length >= 8:
		score += 20
	default:
		score += length * 2
	}

	classes := classify(password)
	if classes.upper {
		score += 15
	}
	if classes.lower {
		score += 15
	}
	if classes.digit {
		score += 15
	}
	if classes.symbol {
		score += 15
	}

	score -= repeatedRunPenalty(password)

	lowered := strings.ToLower(password)
	for _, common := range commonSubstrings {
		if strings.Contains(lowered, common) {
			score -= 30
			break
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

const (
	upperChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerChars  = "abcdefghijkmnpqrstuvwxyz"
	digitChars  = "23456789"
	symbolChars = "!@#$%^&*-_"
)

// Generate returns a random password satisfying the policy: one character
// from each required class, the rest drawn from the full alphabet, then a
// basic shuffle.
func (p *Policy) Generate() (string, error) {
	alphabet := upperChars + lowerChars + digitChars
	if p.requireSymbol {
		alphabet += symbolChars
	}

	out := make([]byte, 0, p.generatedLen)
	if p.requireUpper {
		c, err := pick(upperChars)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	if p.requireLower {
		c, err := pick(lowerChars)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	if p.requireDigit {
		c, err := pick(digitChars)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	if p.requireSymbol {
		c, err := pick(symbolChars)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	for len(out) < p.generatedLen {
		c, err := pick(alphabet)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	if err := shuffle(out); err != nil {
		return "", err
	}
	return string(out), nil
}

type charClasses struct {
	upper, lower, digit, symbol bool
}

func classify(password string) charClasses {
	var c charClasses
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsLower(r):
			c.lower = true
		case unicode.IsDigit(r):
			c.digit = true
		default:
			c.symbol = true
		}
	}
	return c
}

func repeatedRunPenalty(password string) int {
	penalty := 0
	run := 1
	for i := 1; i < len(password); i++ {
		if password[i] == password[i-1] {
			run++
			if run >= 3 {
				penalty += 5
			}
		} else {
			run = 1
		}
	}
	return penalty
}

func pick(alphabet string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, err
	}
	return alphabet[n.Int64()], nil
}

func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
