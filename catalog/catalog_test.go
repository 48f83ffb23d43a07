package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/sahayak-labs/sahayak/catalog"
)

func TestNewRegistry_Validation(t *testing.T) {
	valid := catalog.LoanType{
		Name:           "gold_loan",
		DisplayName:    "Gold Loan",
		RequiredFields: []string{"full_name"},
	}

	tests := []struct {
		name    string
		types   []catalog.LoanType
		wantErr error
	}{
		{"empty catalog", nil, catalog.ErrNoTypes},
		{"valid single type", []catalog.LoanType{valid}, nil},
		{
			"empty key",
			[]catalog.LoanType{{DisplayName: "X", RequiredFields: []string{"a"}}},
			catalog.ErrEmptyKey,
		},
		{
			"no required fields",
			[]catalog.LoanType{{Name: "x", DisplayName: "X"}},
			catalog.ErrNoRequiredField,
		},
		{
			"duplicate field",
			[]catalog.LoanType{{Name: "x", RequiredFields: []string{"a", "a"}}},
			catalog.ErrDuplicateField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.NewRegistry(tt.types)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("NewRegistry failed: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewRegistry_DuplicateKey(t *testing.T) {
	_, err := catalog.NewRegistry([]catalog.LoanType{
		{Name: "gold_loan", RequiredFields: []string{"a"}},
		{Name: "gold_loan", RequiredFields: []string{"b"}},
	})
	if err == nil {
		t.Fatal("expected error for duplicate key")
	}
}

func TestDefault_ContainsOriginalProducts(t *testing.T) {
	reg := catalog.Default()

	for _, key := range []string{
		"gold_loan", "two_wheeler_loan", "personal_loan",
		"home_loan", "car_loan", "business_loan", "student_loan",
	} {
		lt, ok := reg.Get(key)
		if !ok {
			t.Errorf("missing loan type %q", key)
			continue
		}
		if lt.DisplayName == "" {
			t.Errorf("%s has empty display name", key)
		}
		if len(lt.RequiredFields) == 0 {
			t.Errorf("%s has no required fields", key)
		}
	}

	if reg.Len() != 7 {
		t.Errorf("got %d loan types, want 7", reg.Len())
	}
}

func TestKeys_SortedAndCopied(t *testing.T) {
	reg := catalog.Default()

	keys := reg.Keys()
	if !sort.StringsAreSorted(keys) {
		t.Errorf("keys not sorted: %v", keys)
	}

	keys[0] = "mutated"
	if reg.Keys()[0] == "mutated" {
		t.Error("Keys() returned internal slice, want a copy")
	}
}

func TestGet_UnknownKey(t *testing.T) {
	reg := catalog.Default()
	if _, ok := reg.Get("yacht_loan"); ok {
		t.Error("Get returned true for unknown key")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")

	doc := `loan_types:
  - name: tractor_loan
    display_name: Tractor Loan
    required_documents:
      - Land Records
    required_fields:
      - full_name
      - land_acres
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	reg, err := catalog.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	lt, ok := reg.Get("tractor_loan")
	if !ok {
		t.Fatal("tractor_loan not found")
	}
	if lt.DisplayName != "Tractor Loan" {
		t.Errorf("got display name %q", lt.DisplayName)
	}
	if len(lt.RequiredFields) != 2 {
		t.Errorf("got %d required fields, want 2", len(lt.RequiredFields))
	}
}

func TestLoadFile_InvalidCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")

	// A type without required fields must fail startup validation.
	doc := `loan_types:
  - name: broken_loan
    display_name: Broken
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := catalog.LoadFile(path); !errors.Is(err, catalog.ErrNoRequiredField) {
		t.Errorf("got error %v, want ErrNoRequiredField", err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := catalog.LoadFile("/nonexistent/catalog.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
