/*
definition.go - Period Definition Table

PURPOSE:
  Maps each period code to its structural parameters (how many months,
  quarters or years it spans). The table is loaded once, validated, and
  read-only afterwards, so it can be shared across goroutines without locking.

FILE FORMAT (YAML, JSON accepted):
  periods:
    - code: PQ3
      display_name: Prior Quarter 3
      quarters: 3
    - code: 12MT
      display_name: Trailing 12 Months
      months: 12

LOAD-TIME VALIDATION:
  - codes are unique and already normalized (trimmed, upper case)
  - each code matches exactly one rule family
  - parametric families carry the magnitude field they read, and it equals
    the number embedded in the code
  - magnitudes are non-negative

SEE ALSO:
  - universe.yaml: the embedded default table
  - rule.go: rule families
*/
package periods

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed universe.yaml
var universeYAML []byte

// Definition is one row of the table.
type Definition struct {
	Code        string `yaml:"code" json:"code"`
	DisplayName string `yaml:"display_name" json:"display_name"`
	Months      *int   `yaml:"months,omitempty" json:"months,omitempty"`
	Quarters    *int   `yaml:"quarters,omitempty" json:"quarters,omitempty"`
	Years       *int   `yaml:"years,omitempty" json:"years,omitempty"`
}

// Magnitude returns the value of the requested field, if present.
func (d Definition) Magnitude(m Magnitude) (int, bool) {
	var v *int
	switch m {
	case MagnitudeMonths:
		v = d.Months
	case MagnitudeQuarters:
		v = d.Quarters
	case MagnitudeYears:
		v = d.Years
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Rule returns the rule family the definition's code resolves with.
func (d Definition) Rule() Rule {
	r, _ := RuleFor(d.Code)
	return r
}

// Table is an immutable code -> Definition lookup.
type Table struct {
	defs  map[string]Definition
	order []string
}

type tableFile struct {
	Periods []Definition `yaml:"periods"`
}

// LoadTable parses and validates a table.
func LoadTable(r io.Reader) (*Table, error) {
	var f tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	return NewTable(f.Periods)
}

// NewTable validates defs and builds a table preserving their order.
func NewTable(defs []Definition) (*Table, error) {
	t := &Table{defs: make(map[string]Definition, len(defs))}

	for i, d := range defs {
		if d.Code == "" {
			return nil, fmt.Errorf("%w: entry %d has no code", ErrInvalidTable, i)
		}
		if d.Code != NormalizeCode(d.Code) {
			return nil, fmt.Errorf("%w: code %q is not normalized", ErrInvalidTable, d.Code)
		}
		if _, dup := t.defs[d.Code]; dup {
			return nil, fmt.Errorf("%w: duplicate code %q", ErrInvalidTable, d.Code)
		}
		for _, m := range []Magnitude{MagnitudeMonths, MagnitudeQuarters, MagnitudeYears} {
			if v, ok := d.Magnitude(m); ok && v < 0 {
				return nil, fmt.Errorf("%w: %s has negative %s", ErrInvalidTable, d.Code, m)
			}
		}

		c, err := classify(d.Code)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
		}
		if m := c.family.magnitude; m != MagnitudeNone {
			v, ok := d.Magnitude(m)
			if !ok {
				return nil, fmt.Errorf("%w: %s requires %s", ErrInvalidTable, d.Code, m)
			}
			if v != c.param {
				return nil, fmt.Errorf("%w: %s has %s %d, code says %d", ErrInvalidTable, d.Code, m, v, c.param)
			}
		}

		t.defs[d.Code] = d
		t.order = append(t.order, d.Code)
	}
	return t, nil
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// DefaultTable returns the embedded universe. It panics if the embedded file
// is invalid, which the package tests rule out.
func DefaultTable() *Table {
	defaultOnce.Do(func() {
		t, err := LoadTable(bytes.NewReader(universeYAML))
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}

// Lookup returns the definition for code.
func (t *Table) Lookup(code string) (Definition, error) {
	d, ok := t.defs[NormalizeCode(code)]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownPeriodCode, code)
	}
	return d, nil
}

// Has reports whether code is registered.
func (t *Table) Has(code string) bool {
	_, ok := t.defs[NormalizeCode(code)]
	return ok
}

// Definitions returns every entry in table order.
func (t *Table) Definitions() []Definition {
	out := make([]Definition, len(t.order))
	for i, code := range t.order {
		out[i] = t.defs[code]
	}
	return out
}

func (t *Table) Len() int { return len(t.order) }

// Accepts reports whether a resolver over t can resolve code: it must match
// exactly one rule family and, if that family is parametric, be registered.
func (t *Table) Accepts(code string) error {
	code = NormalizeCode(code)
	c, err := classify(code)
	if err != nil {
		return err
	}
	if c.family.magnitude != MagnitudeNone && !t.Has(code) {
		return &CodeError{Code: code, Reason: "not in definition table", Err: ErrUnknownPeriodCode}
	}
	return nil
}
