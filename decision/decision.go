// Package decision scores completed loan applications. Evaluation is a
// pure function of the submission against the catalog: same input, same
// verdict, regardless of field insertion order.
package decision

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sahayak-labs/sahayak/catalog"
)

// Usage errors. A submission that trips one of these was malformed by the
// caller; Evaluate never invents a default verdict for it.
var (
	ErrUnknownLoanType = errors.New("unknown loan type")
	ErrEmptyLoanType   = errors.New("loan type is empty")
	ErrNoFields        = errors.New("submission has no fields")
)

// Submission is one finalized loan application. Fields is an open mapping:
// keys beyond the catalog's required list are carried through untouched.
type Submission struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	LoanType    string         `json:"loan_type"`
	Fields      map[string]any `json:"fields"`
	Documents   []string       `json:"documents"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

// Verdict is the eligibility outcome for a submission.
type Verdict struct {
	Eligible bool `json:"eligible"`
	Score    int  `json:"score"` // 0..100
}

// Policy tunes the deterministic scoring rule.
type Policy struct {
	// BaseScore is granted to every well-formed submission.
	BaseScore int `json:"base_score,omitempty"`
	// CoverageWeight is the maximum contribution of required-field
	// coverage.
	CoverageWeight int `json:"coverage_weight,omitempty"`
	// DocumentBonus is granted when at least one supporting document was
	// supplied.
	DocumentBonus int `json:"document_bonus,omitempty"`
	// EligibilityThreshold is the minimum score considered eligible.
	EligibilityThreshold int `json:"eligibility_threshold,omitempty"`
}

// DefaultPolicy returns the default scoring policy.
func DefaultPolicy() Policy {
	return Policy{
		BaseScore:            40,
		CoverageWeight:       50,
		DocumentBonus:        10,
		EligibilityThreshold: 60,
	}
}

// Merge applies non-zero values from source into p.
func (p *Policy) Merge(source *Policy) {
	if source.BaseScore > 0 {
		p.BaseScore = source.BaseScore
	}
	if source.CoverageWeight > 0 {
		p.CoverageWeight = source.CoverageWeight
	}
	if source.DocumentBonus > 0 {
		p.DocumentBonus = source.DocumentBonus
	}
	if source.EligibilityThreshold > 0 {
		p.EligibilityThreshold = source.EligibilityThreshold
	}
}

// Evaluator scores submissions against a loan catalog.
type Evaluator struct {
	registry *catalog.Registry
	policy   Policy
}

// NewEvaluator creates an Evaluator for the given catalog and policy.
func NewEvaluator(registry *catalog.Registry, policy Policy) *Evaluator {
	return &Evaluator{registry: registry, policy: policy}
}

// Evaluate returns the verdict for a submission. It fails loudly on an
// unknown loan type and on structurally empty submissions; it never fails
// for missing optional fields.
func (e *Evaluator) Evaluate(sub Submission) (Verdict, error) {
	if sub.LoanType == "" {
		return Verdict{}, ErrEmptyLoanType
	}
	if len(sub.Fields) == 0 {
		return Verdict{}, ErrNoFields
	}

	loanType, ok := e.registry.Get(sub.LoanType)
	if !ok {
		return Verdict{}, fmt.Errorf("%w: %s", ErrUnknownLoanType, sub.LoanType)
	}

	filled := 0
	for _, field := range loanType.RequiredFields {
		if isFilled(sub.Fields[field]) {
			filled++
		}
	}

	coverage := float64(filled) / float64(len(loanType.RequiredFields))
	score := e.policy.BaseScore + int(math.Round(coverage*float64(e.policy.CoverageWeight)))
	if len(sub.Documents) > 0 {
		score += e.policy.DocumentBonus
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return Verdict{
		Eligible: score >= e.policy.EligibilityThreshold,
		Score:    score,
	}, nil
}

// isFilled reports whether a collected value carries information. Numeric
// zero counts as filled; nil and empty strings do not.
func isFilled(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	default:
		return true
	}
}
