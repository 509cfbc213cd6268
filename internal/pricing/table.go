package pricing

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	apperrors "modulos/pricing/internal/errors"
)

//go:embed tiers.yaml
var defaultTiersYAML []byte

var defaultTable = sync.OnceValues(func() (*Table, error) {
	return LoadTable(bytes.NewReader(defaultTiersYAML))
})

// Table is an immutable, ordered sequence of tiers. Build one with NewTable,
// LoadTable or DefaultTable; there is no mutation API.
type Table struct {
	tiers []Tier
}

// DefaultTable returns the built-in six-tier table. It is parsed once per process.
func DefaultTable() (*Table, error) {
	return defaultTable()
}

// MustDefaultTable is DefaultTable for callers that cannot recover from a broken embed.
func MustDefaultTable() *Table {
	t, err := DefaultTable()
	if err != nil {
		panic(err)
	}
	return t
}

// NewTable validates tiers and returns a table holding a private copy of them.
func NewTable(tiers []Tier) (*Table, error) {
	if err := validateTiers(tiers); err != nil {
		return nil, err
	}
	owned := make([]Tier, len(tiers))
	for i, t := range tiers {
		owned[i] = t.clone()
	}
	return &Table{tiers: owned}, nil
}

// Tiers returns a copy of the tiers in table order.
func (t *Table) Tiers() []Tier {
	out := make([]Tier, len(t.tiers))
	for i, tier := range t.tiers {
		out[i] = tier.clone()
	}
	return out
}

// Len returns the number of tiers.
func (t *Table) Len() int {
	return len(t.tiers)
}

// At returns the tier at index i.
func (t *Table) At(i int) Tier {
	return t.tiers[i].clone()
}

// Last returns the open-ended top tier.
func (t *Table) Last() Tier {
	return t.At(len(t.tiers) - 1)
}

// Lookup finds a tier by name.
func (t *Table) Lookup(name string) (Tier, bool) {
	i := t.indexOf(name)
	if i < 0 {
		return Tier{}, false
	}
	return t.At(i), true
}

func (t *Table) indexOf(name string) int {
	for i, tier := range t.tiers {
		if tier.Name == name {
			return i
		}
	}
	return -1
}

type tableFile struct {
	Tiers []tierFile `yaml:"tiers"`
}

type tierFile struct {
	Name                 string       `yaml:"name"`
	MinApps              int          `yaml:"min_apps"`
	MaxApps              *int         `yaml:"max_apps"`
	BasePrice            yamlDecimal  `yaml:"base_price"`
	PricePerApp          yamlDecimal  `yaml:"price_per_app"`
	InflectionPoint      *yamlDecimal `yaml:"inflection_point"`
	InflectionPercentage *yamlDecimal `yaml:"inflection_percentage"`
}

// yamlDecimal reads a YAML scalar without going through float64.
type yamlDecimal struct {
	decimal.Decimal
}

func (d *yamlDecimal) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := decimal.NewFromString(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %q is not a number: %w", value.Line, value.Value, err)
	}
	d.Decimal = parsed
	return nil
}

func (d *yamlDecimal) ptr() *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := d.Decimal
	return &v
}

// LoadTable parses a YAML tier table and validates it.
func LoadTable(r io.Reader) (*Table, error) {
	var file tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrorCodeInvalidTable, err, "failed to parse tier table")
	}

	tiers := make([]Tier, 0, len(file.Tiers))
	for _, tf := range file.Tiers {
		maxApps := Unbounded
		if tf.MaxApps != nil {
			maxApps = *tf.MaxApps
		}
		tiers = append(tiers, Tier{
			Name:                 tf.Name,
			MinApps:              tf.MinApps,
			MaxApps:              maxApps,
			BasePrice:            tf.BasePrice.Decimal,
			PricePerApp:          tf.PricePerApp.Decimal,
			InflectionPoint:      tf.InflectionPoint.ptr(),
			InflectionPercentage: tf.InflectionPercentage.ptr(),
		})
	}
	return NewTable(tiers)
}

// LoadTableFile reads a tier table from path.
func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tier table: %w", err)
	}
	defer f.Close()
	return LoadTable(f)
}

func validateTiers(tiers []Tier) error {
	invalid := func(format string, args ...any) error {
		return apperrors.New(apperrors.ErrorCodeInvalidTable, fmt.Sprintf(format, args...))
	}

	if len(tiers) == 0 {
		return invalid("table has no tiers")
	}

	seen := make(map[string]bool, len(tiers))
	last := len(tiers) - 1
	for i, t := range tiers {
		if t.Name == "" {
			return invalid("tier %d has no name", i)
		}
		if seen[t.Name] {
			return invalid("duplicate tier name %q", t.Name)
		}
		seen[t.Name] = true

		if t.MinApps < 0 {
			return invalid("tier %q: min_apps %d is negative", t.Name, t.MinApps)
		}
		if t.MaxApps < t.MinApps {
			return invalid("tier %q: max_apps %d is below min_apps %d", t.Name, t.MaxApps, t.MinApps)
		}
		if t.BasePrice.IsNegative() || t.PricePerApp.IsNegative() {
			return invalid("tier %q: prices must not be negative", t.Name)
		}

		if i > 0 {
			prev := tiers[i-1]
			if prev.MaxApps+1 != t.MinApps {
				return invalid("tier %q must start at %d to follow %q", t.Name, prev.MaxApps+1, prev.Name)
			}
		}

		if i == last {
			if !t.IsUnbounded() {
				return invalid("last tier %q must have no max_apps", t.Name)
			}
			if t.InflectionPoint != nil {
				return invalid("last tier %q must have no inflection point", t.Name)
			}
		} else if t.IsUnbounded() {
			return invalid("only the last tier may be unbounded, %q is not last", t.Name)
		}
	}
	return nil
}
