package sanitize

import (
	"regexp"
	"strings"
)

// apartmentPattern matches apartment/unit/suite tokens inside addresses
var apartmentPattern = regexp.MustCompile(`(?i)(#|Apt\.?|Unit|Suite)\s*([A-Za-z0-9-]+)`)

// addressSanitizer replaces street addresses, keeping the original
// apartment/unit token in place when format preservation is on.
type addressSanitizer struct {
	*core
}

func (s *addressSanitizer) Sanitize(value string, preserveFormat bool) string {
	if value == "" {
		return value
	}

	sanitized := s.consistentValue(value)

	if preserveFormat {
		sanitized = preserveCase(value, sanitized)

		if token := apartmentPattern.FindString(value); token != "" {
			if apartmentPattern.MatchString(sanitized) {
				sanitized = apartmentPattern.ReplaceAllLiteralString(sanitized, token)
			} else {
				sanitized = sanitized + " " + token
			}
		}
	}

	return sanitized
}

func (s *addressSanitizer) SanitizeColumn(values []string, preserveFormat bool) []string {
	return applyColumn(s, values, preserveFormat)
}

func newAddress(opts Options) Sanitizer {
	s := &addressSanitizer{core: newCore(opts)}
	s.generate = func(string) string {
		return s.faker.Street()
	}
	return s
}

// phonePattern splits a phone number into area/prefix/line groups plus an
// optional extension.
var phonePattern = regexp.MustCompile(`(?P<area>\d{3})?[).\s-]*(?P<prefix>\d{3})[.\s-]*(?P<line>\d{4})(?P<ext>\s*(?:ext\.?|x)\s*\d+)?`)

// phoneSanitizer regenerates phone numbers as ###-###-#### and reapplies the
// original separators and extension when format preservation is on.
type phoneSanitizer struct {
	*core
}

func (s *phoneSanitizer) Sanitize(value string, preserveFormat bool) string {
	if value == "" {
		return value
	}

	sanitized := s.consistentValue(value)

	if preserveFormat {
		if formatted, ok := reapplyPhoneFormat(value, sanitized); ok {
			return formatted
		}
	}

	return sanitized
}

func (s *phoneSanitizer) SanitizeColumn(values []string, preserveFormat bool) []string {
	return applyColumn(s, values, preserveFormat)
}

// reapplyPhoneFormat rebuilds the synthetic number in the original's shape:
// whatever surrounded the area code, the separator between prefix and line,
// and any trailing extension.
func reapplyPhoneFormat(original, sanitized string) (string, bool) {
	idx := phonePattern.FindStringSubmatchIndex(original)
	if idx == nil {
		return "", false
	}

	parts := strings.Split(sanitized, "-")
	if len(parts) != 3 {
		return "", false
	}
	area, prefix, line := parts[0], parts[1], parts[2]

	areaIdx := phonePattern.SubexpIndex("area")
	prefixIdx := phonePattern.SubexpIndex("prefix")
	lineIdx := phonePattern.SubexpIndex("line")
	extIdx := phonePattern.SubexpIndex("ext")

	prefixStart := idx[2*prefixIdx]
	lineStart := idx[2*lineIdx]

	// Everything before the prefix keeps its shape; a seven-digit original
	// simply has no area group to swap.
	head := original[:prefixStart]
	if idx[2*areaIdx] >= 0 {
		head = strings.Replace(head, original[idx[2*areaIdx]:idx[2*areaIdx+1]], area, 1)
	}

	separator := strings.Replace(original[prefixStart:lineStart], original[prefixStart:idx[2*prefixIdx+1]], "", 1)

	formatted := head + prefix + separator + line
	if idx[2*extIdx] >= 0 {
		formatted += original[idx[2*extIdx]:idx[2*extIdx+1]]
	}

	return formatted, true
}

func newPhoneNumber(opts Options) Sanitizer {
	s := &phoneSanitizer{core: newCore(opts)}
	s.generate = func(string) string {
		return s.faker.Numerify("###-###-####")
	}
	return s
}

// emailSanitizer generates a new local-part with a same-shape domain; format
// preservation keeps the original domain and casing.
type emailSanitizer struct {
	*core
}

func (s *emailSanitizer) Sanitize(value string, preserveFormat bool) string {
	if value == "" {
		return value
	}

	sanitized := s.consistentValue(value)

	if preserveFormat {
		originalDomain := domainOf(value)
		if at := strings.LastIndex(sanitized, "@"); at != -1 && originalDomain != "" {
			sanitized = sanitized[:at+1] + originalDomain
		}
		sanitized = preserveCase(value, sanitized)
	}

	return sanitized
}

func (s *emailSanitizer) SanitizeColumn(values []string, preserveFormat bool) []string {
	return applyColumn(s, values, preserveFormat)
}

func domainOf(email string) string {
	if at := strings.LastIndex(email, "@"); at != -1 {
		return email[at+1:]
	}
	return ""
}

func newEmail(opts Options) Sanitizer {
	s := &emailSanitizer{core: newCore(opts)}
	s.generate = func(original string) string {
		username := s.faker.Username()

		// Fabricate a domain with the same TLD shape as the original's.
		originalDomain := domainOf(original)
		var domain string
		if dot := strings.LastIndex(originalDomain, "."); dot != -1 {
			domain = strings.ToLower(s.faker.Word()) + originalDomain[dot:]
		} else {
			domain = s.faker.DomainName()
		}

		return username + "@" + domain
	}
	return s
}
