package sanitize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ssnPattern is the canonical SSN shape, dashes optional
var ssnPattern = regexp.MustCompile(`^\d{3}-?\d{2}-?\d{4}$`)

// ssnSanitizer generates nine fresh digits; the area group never lands in
// the reserved 900-999 range. Mappings store the undashed digit string.
type ssnSanitizer struct {
	*core
}

func (s *ssnSanitizer) Sanitize(value string, preserveFormat bool) string {
	if value == "" {
		return value
	}

	canonical := ssnPattern.MatchString(value)
	hasDashes := strings.Contains(value, "-")

	sanitized := s.consistentValue(value)

	if preserveFormat && canonical && hasDashes {
		sanitized = sanitized[:3] + "-" + sanitized[3:5] + "-" + sanitized[5:]
	}

	return sanitized
}

func (s *ssnSanitizer) SanitizeColumn(values []string, preserveFormat bool) []string {
	return applyColumn(s, values, preserveFormat)
}

func newSSN(opts Options) Sanitizer {
	s := &ssnSanitizer{core: newCore(opts)}
	s.generate = func(string) string {
		area := s.faker.Number(1, 899)
		group := s.faker.Number(1, 99)
		serial := s.faker.Number(1, 9999)
		return fmt.Sprintf("%03d%02d%04d", area, group, serial)
	}
	return s
}

// mrnSanitizer regenerates medical record numbers, keeping a leading letter
// and the original length.
type mrnSanitizer struct {
	*core
}

func (s *mrnSanitizer) Sanitize(value string, preserveFormat bool) string {
	if value == "" {
		return value
	}

	sanitized := s.consistentValue(value)

	if preserveFormat {
		if r := []rune(value)[0]; unicode.IsLetter(r) && len(sanitized) > 0 {
			sanitized = toUpper(sanitized[:1]) + sanitized[1:]
		}
		if len(sanitized) > len(value) {
			sanitized = sanitized[:len(value)]
		}
	}

	return sanitized
}

func (s *mrnSanitizer) SanitizeColumn(values []string, preserveFormat bool) []string {
	return applyColumn(s, values, preserveFormat)
}

func newMRN(opts Options) Sanitizer {
	s := &mrnSanitizer{core: newCore(opts)}
	s.generate = func(original string) string {
		length := len(original)
		if length == 0 {
			return s.faker.Numerify(strings.Repeat("#", 8))
		}
		if unicode.IsLetter([]rune(original)[0]) {
			return s.faker.Lexify("?") + s.faker.Numerify(strings.Repeat("#", length-1))
		}
		return s.faker.Numerify(strings.Repeat("#", length))
	}
	return s
}

// insuranceIDSanitizer regenerates IDs matching the original's character
// classes and reapplies the original's separator characters in place.
type insuranceIDSanitizer struct {
	*core
}

func (s *insuranceIDSanitizer) Sanitize(value string, preserveFormat bool) string {
	if value == "" {
		return value
	}

	sanitized := s.consistentValue(value)

	if preserveFormat {
		sanitized = spliceSeparators(value, sanitized)
	}

	return sanitized
}

func (s *insuranceIDSanitizer) SanitizeColumn(values []string, preserveFormat bool) []string {
	return applyColumn(s, values, preserveFormat)
}

func newInsuranceID(opts Options) Sanitizer {
	s := &insuranceIDSanitizer{core: newCore(opts)}
	s.generate = func(original string) string {
		return s.regenerateAlphanumeric(stripNonAlphanumeric(original))
	}
	return s
}

// medicaidShapes are the canonical Medicaid number patterns, checked against
// the separator-stripped uppercase value.
var medicaidShapes = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z]{2}\d{5}[A-Z]$`), // AA12345A
	regexp.MustCompile(`^\d{7,12}$`),           // pure numeric, state-dependent length
	regexp.MustCompile(`^[A-Z]{2}-\d{8}$`),     // AB-12345678
}

// medicaidSanitizer regenerates Medicaid numbers within whichever canonical
// shape the original matches.
type medicaidSanitizer struct {
	*core
}

func (s *medicaidSanitizer) Sanitize(value string, preserveFormat bool) string {
	if value == "" {
		return value
	}

	sanitized := s.consistentValue(value)

	if preserveFormat {
		sanitized = spliceSeparators(value, sanitized)
		if len(sanitized) > len(value) {
			sanitized = sanitized[:len(value)]
		}
	}

	return sanitized
}

func (s *medicaidSanitizer) SanitizeColumn(values []string, preserveFormat bool) []string {
	return applyColumn(s, values, preserveFormat)
}

func newMedicaidNumber(opts Options) Sanitizer {
	s := &medicaidSanitizer{core: newCore(opts)}
	s.generate = func(original string) string {
		clean := strings.ToUpper(stripNonAlphanumeric(original))

		switch {
		case medicaidShapes[0].MatchString(clean):
			return toUpper(s.faker.Lexify("??")) + s.faker.Numerify("#####") + toUpper(s.faker.Lexify("?"))
		case medicaidShapes[1].MatchString(clean):
			return s.faker.Numerify(strings.Repeat("#", len(clean)))
		case medicaidShapes[2].MatchString(strings.ToUpper(original)):
			return toUpper(s.faker.Lexify("??")) + "-" + s.faker.Numerify("########")
		}

		return s.regenerateAlphanumeric(clean)
	}
	return s
}

// driversLicenseSanitizer keeps a leading two-letter state prefix and the
// original length.
type driversLicenseSanitizer struct {
	*core
}

func (s *driversLicenseSanitizer) Sanitize(value string, preserveFormat bool) string {
	if value == "" {
		return value
	}

	sanitized := s.consistentValue(value)

	if preserveFormat {
		if len(value) >= 2 && isAlphabetic(value[:2]) && len(sanitized) >= 2 {
			sanitized = value[:2] + sanitized[2:]
		}
		if len(sanitized) > len(value) {
			sanitized = sanitized[:len(value)]
		}
	}

	return sanitized
}

func (s *driversLicenseSanitizer) SanitizeColumn(values []string, preserveFormat bool) []string {
	return applyColumn(s, values, preserveFormat)
}

func newDriversLicense(opts Options) Sanitizer {
	s := &driversLicenseSanitizer{core: newCore(opts)}
	s.generate = func(original string) string {
		if len(original) >= 2 && isAlphabetic(original[:2]) {
			return original[:2] + s.regenerateAlphanumeric(original[2:])
		}
		return s.regenerateAlphanumeric(original)
	}
	return s
}

// regenerateAlphanumeric produces a value with the same character classes as
// template: letter positions stay letters (matching case), digit positions
// stay digits, everything else is carried through.
func (c *core) regenerateAlphanumeric(template string) string {
	var b strings.Builder
	for _, r := range template {
		switch {
		case unicode.IsUpper(r):
			b.WriteString(toUpper(c.faker.Lexify("?")))
		case unicode.IsLower(r):
			b.WriteString(c.faker.Lexify("?"))
		case unicode.IsDigit(r):
			b.WriteString(c.faker.Numerify("#"))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripNonAlphanumeric removes everything but letters and digits
func stripNonAlphanumeric(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// spliceSeparators copies the original's non-alphanumeric characters into the
// sanitized value at their original positions.
func spliceSeparators(original, sanitized string) string {
	out := []rune(sanitized)
	for i, r := range original {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && i < len(out) {
			out[i] = r
		}
	}
	return string(out)
}

// isAlphabetic reports whether every byte of s is an ASCII letter
func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
