package sanitize

import (
	"testing"
)

// memStore is an in-memory mapping.Store for tests
type memStore struct {
	data  map[string]map[string]string
	saves int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]map[string]string)}
}

func (s *memStore) Load(key string) (map[string]string, error) {
	out := make(map[string]string)
	for k, v := range s.data[key] {
		out[k] = v
	}
	return out, nil
}

func (s *memStore) Save(key string, values map[string]string) error {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	s.data[key] = copied
	s.saves++
	return nil
}

func (s *memStore) Delete(key string) error {
	delete(s.data, key)
	return nil
}

func TestSharedMapping(t *testing.T) {
	store := newMemStore()

	t.Run("members of a group share one mapping", func(t *testing.T) {
		shared := NewSharedMapping(store, "patient", testOptions().Logger)
		shared.Load()

		first, err := New(CategoryFirstName, testOptions())
		if err != nil {
			t.Fatal(err)
		}
		last, err := New(CategoryLastName, testOptions())
		if err != nil {
			t.Fatal(err)
		}
		first.UseSharedMapping(shared)
		last.UseSharedMapping(shared)

		a := first.Sanitize("Taylor", false)
		b := last.Sanitize("Taylor", false)
		if a != b {
			t.Errorf("Group members disagreed on %q: %q vs %q", "Taylor", a, b)
		}
	})

	t.Run("every new pair is persisted immediately", func(t *testing.T) {
		if store.saves == 0 {
			t.Error("Expected the shared mapping to persist on add")
		}
		if len(store.data["patient"]) == 0 {
			t.Error("Expected persisted pairs under the group key")
		}
	})

	t.Run("a fresh shared mapping resumes from the store", func(t *testing.T) {
		shared := NewSharedMapping(store, "patient", testOptions().Logger)
		shared.Load()

		s, err := New(CategoryFirstName, testOptions())
		if err != nil {
			t.Fatal(err)
		}
		s.UseSharedMapping(shared)

		want := store.data["patient"]["Taylor"]
		if got := s.Sanitize("Taylor", false); got != want {
			t.Errorf("Expected persisted value %q, got %q", want, got)
		}
	})
}

func TestLoadSaveMapping(t *testing.T) {
	store := newMemStore()

	s, err := New(CategoryFullName, testOptions())
	if err != nil {
		t.Fatal(err)
	}

	original := s.Sanitize("Pat Doe", false)
	s.SaveMapping(store, "full_name")

	fresh, err := New(CategoryFullName, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	fresh.LoadMapping(store, "full_name")

	if got := fresh.Sanitize("Pat Doe", false); got != original {
		t.Errorf("Expected %q after reload, got %q", original, got)
	}
}
