package sanitize

import (
	"regexp"
	"strings"
	"testing"
)

func TestPhoneNumber(t *testing.T) {
	s, err := New(CategoryPhoneNumber, testOptions())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("parenthesized shape survives", func(t *testing.T) {
		out := s.Sanitize("(555) 123-4567", true)
		if !regexp.MustCompile(`^\(\d{3}\) \d{3}-\d{4}$`).MatchString(out) {
			t.Errorf("Expected (###) ###-#### shape, got %q", out)
		}
	})

	t.Run("dotted shape survives", func(t *testing.T) {
		out := s.Sanitize("555.123.4567", true)
		if !regexp.MustCompile(`^\d{3}\.\d{3}\.\d{4}$`).MatchString(out) {
			t.Errorf("Expected ###.###.#### shape, got %q", out)
		}
	})

	t.Run("seven-digit number stays seven digits", func(t *testing.T) {
		out := s.Sanitize("123-4567", true)
		if !regexp.MustCompile(`^\d{3}-\d{4}$`).MatchString(out) {
			t.Errorf("Expected ###-#### shape, got %q", out)
		}
	})

	t.Run("extension is kept", func(t *testing.T) {
		out := s.Sanitize("555-123-4567 ext 89", true)
		if !strings.HasSuffix(out, " ext 89") {
			t.Errorf("Expected extension to survive, got %q", out)
		}
	})

	t.Run("without format preservation the canonical shape is used", func(t *testing.T) {
		out := s.Sanitize("(999) 888-7777", false)
		if !regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`).MatchString(out) {
			t.Errorf("Expected ###-###-#### shape, got %q", out)
		}
	})
}

func TestEmail(t *testing.T) {
	s, err := New(CategoryEmail, testOptions())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("original domain survives format preservation", func(t *testing.T) {
		out := s.Sanitize("john.doe@example.com", true)
		if !strings.HasSuffix(out, "@example.com") {
			t.Errorf("Expected original domain, got %q", out)
		}
		if strings.HasPrefix(out, "john.doe@") {
			t.Errorf("Local part should change, got %q", out)
		}
	})

	t.Run("fresh domain keeps the original TLD", func(t *testing.T) {
		out := s.Sanitize("jane@hospital.org", false)
		if !strings.HasSuffix(out, ".org") {
			t.Errorf("Expected .org TLD, got %q", out)
		}
		if strings.HasSuffix(out, "@hospital.org") {
			t.Errorf("Domain should change without format preservation, got %q", out)
		}
	})
}

func TestAddress(t *testing.T) {
	s, err := New(CategoryAddress, testOptions())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("apartment token survives", func(t *testing.T) {
		out := s.Sanitize("123 Main St Apt 4B", true)
		if !strings.Contains(out, "Apt 4B") {
			t.Errorf("Expected apartment token to survive, got %q", out)
		}
	})

	t.Run("unit token survives", func(t *testing.T) {
		out := s.Sanitize("500 Oak Ave Unit 12", true)
		if !strings.Contains(out, "Unit 12") {
			t.Errorf("Expected unit token to survive, got %q", out)
		}
	})

	t.Run("plain address changes", func(t *testing.T) {
		out := s.Sanitize("742 Evergreen Terrace", true)
		if out == "742 Evergreen Terrace" {
			t.Error("Sanitized address should differ from the original")
		}
	})
}

func TestPreserveCase(t *testing.T) {
	cases := []struct {
		original  string
		synthetic string
		want      string
	}{
		{"JOHN", "alice", "ALICE"},
		{"john", "Alice", "alice"},
		{"John", "aLiCe", "Alice"},
		{"", "alice", "alice"},
		{"mIxEd", "alice", "alice"},
	}

	for _, tc := range cases {
		if got := preserveCase(tc.original, tc.synthetic); got != tc.want {
			t.Errorf("preserveCase(%q, %q) = %q, want %q", tc.original, tc.synthetic, got, tc.want)
		}
	}
}
