/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"fmt"
	"regexp"
	"strings"
)

// MaskFormat is a representation in which a secret field can appear in a logged string.
type MaskFormat string

// Supported mask formats.
const (
	MaskFormatHTTPHeader MaskFormat = "http_header"
	MaskFormatJSON       MaskFormat = "json"
	MaskFormatURLEncoded MaskFormat = "urlencoded"
)

// MaskedValue replaces secret values.
const MaskedValue = "***"

// MaskingRule names a secret field and the formats it should be masked in.
type MaskingRule struct {
	Field   string
	Formats []MaskFormat
}

var allMaskFormats = []MaskFormat{MaskFormatHTTPHeader, MaskFormatJSON, MaskFormatURLEncoded}

// DefaultMaskingRules covers credentials sent to and received from the storefront API.
var DefaultMaskingRules = []MaskingRule{
	{Field: "Authorization", Formats: []MaskFormat{MaskFormatHTTPHeader}},
	{Field: "password", Formats: []MaskFormat{MaskFormatJSON, MaskFormatURLEncoded}},
	{Field: "token", Formats: allMaskFormats},
	{Field: "access_token", Formats: allMaskFormats},
	{Field: "accessToken", Formats: []MaskFormat{MaskFormatJSON}},
	{Field: "refresh_token", Formats: allMaskFormats},
	{Field: "refreshToken", Formats: []MaskFormat{MaskFormatJSON}},
}

type replacement struct {
	re   *regexp.Regexp
	repl string
}

// Masker replaces values of secret fields in arbitrary strings.
type Masker struct {
	fields       []string
	replacements []replacement
}

// NewMasker compiles rules into a Masker.
func NewMasker(rules []MaskingRule) *Masker {
	m := &Masker{}
	for _, rule := range rules {
		m.fields = append(m.fields, strings.ToLower(rule.Field))
		field := regexp.QuoteMeta(rule.Field)
		for _, format := range rule.Formats {
			switch format {
			case MaskFormatHTTPHeader:
				m.replacements = append(m.replacements, replacement{
					re:   regexp.MustCompile(fmt.Sprintf(`(?i)(%s:\s*)[^\r\n]+`, field)),
					repl: "${1}" + MaskedValue,
				})
			case MaskFormatJSON:
				m.replacements = append(m.replacements, replacement{
					re:   regexp.MustCompile(fmt.Sprintf(`(?i)("%s"\s*:\s*)"(?:[^"\\]|\\.)*"`, field)),
					repl: `${1}"` + MaskedValue + `"`,
				})
			case MaskFormatURLEncoded:
				m.replacements = append(m.replacements, replacement{
					re:   regexp.MustCompile(fmt.Sprintf(`(?i)((?:^|[?&\s])%s=)[^&\s"]*`, field)),
					repl: "${1}" + MaskedValue,
				})
			}
		}
	}
	return m
}

// Mask returns s with all secret values replaced by MaskedValue.
func (m *Masker) Mask(s string) string {
	if !m.mayContainSecret(s) {
		return s
	}
	for _, r := range m.replacements {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return s
}

// Most logged strings contain none of the fields, so regexps are skipped for them.
func (m *Masker) mayContainSecret(s string) bool {
	lower := strings.ToLower(s)
	for _, f := range m.fields {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}
