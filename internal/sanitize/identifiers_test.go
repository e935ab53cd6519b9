package sanitize

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
)

func TestSSN(t *testing.T) {
	s, err := New(CategorySSN, testOptions())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("keeps dashes when the original has them", func(t *testing.T) {
		out := s.Sanitize("123-45-6789", true)
		if !regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`).MatchString(out) {
			t.Errorf("Expected dashed SSN shape, got %q", out)
		}
	})

	t.Run("keeps undashed originals undashed", func(t *testing.T) {
		out := s.Sanitize("123456789", true)
		if !regexp.MustCompile(`^\d{9}$`).MatchString(out) {
			t.Errorf("Expected nine digits, got %q", out)
		}
	})

	t.Run("area group stays out of the reserved range", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			out := s.Sanitize("value-"+strconv.Itoa(i), false)
			area, err := strconv.Atoi(out[:3])
			if err != nil {
				t.Fatalf("Output %q does not start with digits", out)
			}
			if area < 1 || area > 899 {
				t.Errorf("Area group %03d outside 001-899", area)
			}
		}
	})
}

func TestMRN(t *testing.T) {
	s, err := New(CategoryMedicalRecordNumber, testOptions())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("letter prefix and length survive", func(t *testing.T) {
		out := s.Sanitize("A1234567", true)
		if len(out) != 8 {
			t.Errorf("Expected length 8, got %q", out)
		}
		if !regexp.MustCompile(`^[A-Z]\d{7}$`).MatchString(out) {
			t.Errorf("Expected letter-prefixed MRN, got %q", out)
		}
	})

	t.Run("numeric MRN stays numeric", func(t *testing.T) {
		out := s.Sanitize("00123456", true)
		if !regexp.MustCompile(`^\d{8}$`).MatchString(out) {
			t.Errorf("Expected eight digits, got %q", out)
		}
	})
}

func TestInsuranceID(t *testing.T) {
	s, err := New(CategoryInsuranceID, testOptions())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("separators stay in place", func(t *testing.T) {
		out := s.Sanitize("123-45-678", true)
		if len(out) != 8 {
			t.Fatalf("Expected length 8, got %q", out)
		}
		if out[3] != '-' || out[6] != '-' {
			t.Errorf("Expected dashes at positions 3 and 6, got %q", out)
		}
	})

	t.Run("character classes survive", func(t *testing.T) {
		out := s.Sanitize("AB123456", true)
		if !regexp.MustCompile(`^[A-Z]{2}\d{6}$`).MatchString(out) {
			t.Errorf("Expected two letters then six digits, got %q", out)
		}
	})
}

func TestMedicaidNumber(t *testing.T) {
	s, err := New(CategoryMedicaidNumber, testOptions())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("letter-framed shape", func(t *testing.T) {
		out := s.Sanitize("AB12345C", true)
		if !regexp.MustCompile(`^[A-Z]{2}\d{5}[A-Z]$`).MatchString(out) {
			t.Errorf("Expected AA#####A shape, got %q", out)
		}
	})

	t.Run("numeric shape keeps its length", func(t *testing.T) {
		out := s.Sanitize("123456789", true)
		if !regexp.MustCompile(`^\d{9}$`).MatchString(out) {
			t.Errorf("Expected nine digits, got %q", out)
		}
	})

	t.Run("state-prefixed shape", func(t *testing.T) {
		out := s.Sanitize("NY-12345678", true)
		if !regexp.MustCompile(`^[A-Z]{2}-\d{8}$`).MatchString(out) {
			t.Errorf("Expected AA-######## shape, got %q", out)
		}
	})
}

func TestDriversLicense(t *testing.T) {
	s, err := New(CategoryDriversLicense, testOptions())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("state prefix survives", func(t *testing.T) {
		out := s.Sanitize("CA1234567", true)
		if !strings.HasPrefix(out, "CA") {
			t.Errorf("Expected CA prefix, got %q", out)
		}
		if len(out) != 9 {
			t.Errorf("Expected length 9, got %q", out)
		}
		if out == "CA1234567" {
			t.Error("Sanitized license should differ from the original")
		}
	})

	t.Run("numeric license stays numeric", func(t *testing.T) {
		out := s.Sanitize("12345678", true)
		if !regexp.MustCompile(`^\d{8}$`).MatchString(out) {
			t.Errorf("Expected eight digits, got %q", out)
		}
	})
}

func TestRegenerateAlphanumeric(t *testing.T) {
	c := newCore(testOptions().withDefaults())

	out := c.regenerateAlphanumeric("Ab1-Cd2")
	if len(out) != 7 {
		t.Fatalf("Expected length 7, got %q", out)
	}
	if !regexp.MustCompile(`^[A-Z][a-z]\d-[A-Z][a-z]\d$`).MatchString(out) {
		t.Errorf("Character classes not preserved: %q", out)
	}
}
