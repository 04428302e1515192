package app

import "time"

const (
	defaultCodeTTL    = 10 * time.Minute
	defaultCodeLength = 6
)

// EffectiveCodeTTL returns the configured code lifetime or the ten minute default.
func (c VerificationConfig) EffectiveCodeTTL() time.Duration {
	if c.CodeTTL <= 0 {
		return defaultCodeTTL
	}
	return c.CodeTTL
}

// EffectiveCodeLength returns the configured digit count or six.
func (c VerificationConfig) EffectiveCodeLength() int {
	if c.CodeLength <= 0 {
		return defaultCodeLength
	}
	return c.CodeLength
}

// Catalogue returns the configured icons, falling back to the built-in set.
func (c ProfileConfig) Catalogue() []string {
	if len(c.Icons) == 0 {
		return append([]string(nil), DefaultProfileIcons...)
	}
	return append([]string(nil), c.Icons...)
}
