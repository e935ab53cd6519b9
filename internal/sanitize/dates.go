package sanitize

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// isoDateLayout is the canonical layout stored in value mappings
const isoDateLayout = "2006-01-02"

// dateLayouts are the known date shapes, tried in order; the first that
// parses wins and becomes the output layout when format preservation is on.
var dateLayouts = []string{
	"2006-01-02",      // 2023-12-31
	"01/02/2006",      // 12/31/2023
	"01-02-2006",      // 12-31-2023
	"02/01/2006",      // 31/12/2023
	"02-01-2006",      // 31-12-2023
	"Jan 2, 2006",     // Dec 31, 2023
	"January 2, 2006", // December 31, 2023
	"20060102",        // 20231231
	"01/02/06",        // 12/31/23
	"02/01/06",        // 31/12/23
}

// dateSanitizer handles date_of_birth and appointment_date. Generated dates
// stay within windowDays of the original so derived quantities (age,
// scheduling patterns) remain plausible.
type dateSanitizer struct {
	*core
	windowDays   int
	skipWeekends bool
	policy       DatePolicy
}

func (s *dateSanitizer) Sanitize(value string, preserveFormat bool) string {
	if value == "" {
		return value
	}

	_, layout, ok := parseDate(value)
	if !ok {
		if s.policy == DateRedact {
			s.logger.Warn("Could not parse date, redacting")
			return RedactedDateToken
		}
		s.logger.Warn("Could not parse date, passing through unchanged")
		return value
	}

	sanitized := s.consistentValue(value)

	if preserveFormat {
		if d, err := time.Parse(isoDateLayout, sanitized); err == nil {
			sanitized = d.Format(layout)
		} else {
			s.logger.Error("Error formatting date", zap.Error(err))
		}
	}

	return sanitized
}

func (s *dateSanitizer) SanitizeColumn(values []string, preserveFormat bool) []string {
	return applyColumn(s, values, preserveFormat)
}

// generateDate produces a synthetic date near the original when it parses,
// shifted off weekends when requested.
func (s *dateSanitizer) generateDate(original string, fallback func() time.Time) string {
	date, _, ok := parseDate(original)
	if !ok {
		return fallback().Format(isoDateLayout)
	}

	offset := s.faker.Number(-s.windowDays, s.windowDays)
	date = date.AddDate(0, 0, offset)

	if s.skipWeekends {
		for date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			date = date.AddDate(0, 0, 1)
		}
	}

	return date.Format(isoDateLayout)
}

// parseDate tries the known layouts in order
func parseDate(value string) (time.Time, string, bool) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, trimmed); err == nil {
			return d, layout, true
		}
	}
	return time.Time{}, "", false
}

func newDateOfBirth(opts Options) Sanitizer {
	s := &dateSanitizer{
		core:       newCore(opts),
		windowDays: 365,
		policy:     opts.DatePolicy,
	}
	s.generate = func(original string) string {
		return s.generateDate(original, func() time.Time {
			// Unparsable originals get a birth date for an adult aged 18-90.
			now := time.Now()
			return s.faker.DateRange(now.AddDate(-90, 0, 0), now.AddDate(-18, 0, 0))
		})
	}
	return s
}

func newAppointmentDate(opts Options) Sanitizer {
	s := &dateSanitizer{
		core:         newCore(opts),
		windowDays:   30,
		skipWeekends: true,
		policy:       opts.DatePolicy,
	}
	s.generate = func(original string) string {
		return s.generateDate(original, func() time.Time {
			now := time.Now()
			return s.faker.DateRange(now, now.AddDate(0, 0, 30))
		})
	}
	return s
}
