// Package catalog holds the loan product registry: for each product, the
// fields an application must collect and the documents that can speed
// collection up. The registry is validated once at startup and read-only
// afterwards.
package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for registry validation.
var (
	ErrNoTypes         = errors.New("catalog has no loan types")
	ErrEmptyKey        = errors.New("loan type key is empty")
	ErrNoRequiredField = errors.New("loan type has no required fields")
	ErrDuplicateField  = errors.New("duplicate required field")
)

// LoanType describes one loan product.
type LoanType struct {
	Name              string   `json:"name" yaml:"name"`
	DisplayName       string   `json:"display_name" yaml:"display_name"`
	RequiredDocuments []string `json:"required_documents" yaml:"required_documents"`
	RequiredFields    []string `json:"required_fields" yaml:"required_fields"`
}

// Registry is an immutable mapping from loan type key to its definition.
type Registry struct {
	types map[string]LoanType
	keys  []string
}

// NewRegistry builds a Registry from loan type definitions, validating that
// keys are unique and non-empty, every required-field list is non-empty,
// and field names are unique within a type.
func NewRegistry(types []LoanType) (*Registry, error) {
	if len(types) == 0 {
		return nil, ErrNoTypes
	}

	reg := &Registry{types: make(map[string]LoanType, len(types))}

	for _, lt := range types {
		if lt.Name == "" {
			return nil, ErrEmptyKey
		}
		if _, exists := reg.types[lt.Name]; exists {
			return nil, fmt.Errorf("duplicate loan type key: %s", lt.Name)
		}
		if len(lt.RequiredFields) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoRequiredField, lt.Name)
		}

		seen := make(map[string]bool, len(lt.RequiredFields))
		for _, field := range lt.RequiredFields {
			if seen[field] {
				return nil, fmt.Errorf("%w: %s in %s", ErrDuplicateField, field, lt.Name)
			}
			seen[field] = true
		}

		reg.types[lt.Name] = lt
		reg.keys = append(reg.keys, lt.Name)
	}

	sort.Strings(reg.keys)
	return reg, nil
}

// Get returns the loan type for a key.
func (r *Registry) Get(key string) (LoanType, bool) {
	lt, ok := r.types[key]
	return lt, ok
}

// Keys returns all loan type keys, sorted. This is the closed enumeration
// exposed to the model's finalize action.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.keys...)
}

// List returns all loan types in key order.
func (r *Registry) List() []LoanType {
	list := make([]LoanType, 0, len(r.keys))
	for _, key := range r.keys {
		list = append(list, r.types[key])
	}
	return list
}

// Len returns the number of registered loan types.
func (r *Registry) Len() int {
	return len(r.keys)
}
