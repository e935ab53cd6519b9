package sanitize

// nameSanitizer handles the name categories; variants differ only in the
// generate hook.
type nameSanitizer struct {
	*core
}

func (s *nameSanitizer) Sanitize(value string, preserveFormat bool) string {
	if value == "" {
		return value
	}

	sanitized := s.consistentValue(value)
	if preserveFormat {
		sanitized = preserveCase(value, sanitized)
	}
	return sanitized
}

func (s *nameSanitizer) SanitizeColumn(values []string, preserveFormat bool) []string {
	return applyColumn(s, values, preserveFormat)
}

func newFullName(opts Options) Sanitizer {
	s := &nameSanitizer{core: newCore(opts)}
	s.generate = func(string) string {
		return s.faker.Name()
	}
	return s
}

func newFirstName(opts Options) Sanitizer {
	s := &nameSanitizer{core: newCore(opts)}
	s.generate = func(string) string {
		return s.faker.FirstName()
	}
	return s
}

func newLastName(opts Options) Sanitizer {
	s := &nameSanitizer{core: newCore(opts)}
	s.generate = func(string) string {
		return s.faker.LastName()
	}
	return s
}

func newMiddleName(opts Options) Sanitizer {
	s := &nameSanitizer{core: newCore(opts)}
	s.generate = func(original string) string {
		// A single-character original is an initial; keep it one letter.
		if len(original) == 1 {
			return toUpper(s.faker.Letter())
		}
		return s.faker.FirstName()
	}
	return s
}
