// Package translate maps records of each county's native parcel schema onto
// the canonical metro schema.
//
// Translators never fail on data: a value that cannot be interpreted becomes
// Null for that field only, and every translated record carries the source's
// COUNTY_ID code.
package translate

import (
	"fmt"

	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/schema"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

// DiscriminatorField is written with the source code on every record.
const DiscriminatorField = "COUNTY_ID"

// Translator converts a foreign record into a canonical record.
type Translator interface {
	Source() sources.ID
	Translate(src *schema.Record) *schema.Record
}

// For returns the translator of a known source, validated against the
// canonical schema.
func For(id sources.ID, canonical *schema.Schema) (Translator, error) {
	switch id {
	case sources.Anoka:
		return NewIdentity(id, canonical)
	case sources.Hennepin:
		return NewMapping(id, canonical, HennepinRules())
	case sources.Ramsey:
		return NewMapping(id, canonical, RamseyRules())
	default:
		return nil, errors.NewNotFoundError("translator", id.String())
	}
}

// Identity copies every canonical field from the same-named source field.
// It serves the reference source, whose schema is the canonical schema.
type Identity struct {
	id        sources.ID
	canonical *schema.Schema
	disc      int
}

// NewIdentity creates an identity translator for id.
func NewIdentity(id sources.ID, canonical *schema.Schema) (*Identity, error) {
	disc, err := discriminator(id, canonical)
	if err != nil {
		return nil, err
	}
	return &Identity{id: id, canonical: canonical, disc: disc}, nil
}

// Source returns the source this translator serves.
func (t *Identity) Source() sources.ID { return t.id }

// Translate copies values by field name and stamps the discriminator.
func (t *Identity) Translate(src *schema.Record) *schema.Record {
	out := schema.NewRecord(t.canonical)
	if src != nil {
		in := src.Schema()
		for i := 0; i < t.canonical.Len(); i++ {
			if j := in.Index(t.canonical.Field(i).Name); j >= 0 {
				out.SetAt(i, src.At(j))
			}
		}
	}
	out.SetAt(t.disc, schema.Text(t.id.Code()))
	return out
}

// Mapping fills canonical fields from an explicit rule table. Canonical
// fields without a rule stay Null.
type Mapping struct {
	id        sources.ID
	canonical *schema.Schema
	rules     []Rule
	targets   []int
	disc      int
}

// NewMapping creates a mapping translator. Every rule must target a field of
// the canonical schema.
func NewMapping(id sources.ID, canonical *schema.Schema, rules []Rule) (*Mapping, error) {
	disc, err := discriminator(id, canonical)
	if err != nil {
		return nil, err
	}
	targets := make([]int, len(rules))
	for i, r := range rules {
		idx := canonical.Index(r.Target)
		if idx < 0 {
			return nil, errors.NewValidationError("rules", r.Target,
				fmt.Sprintf("%s maps to a field missing from canonical schema %s", id, canonical.Name()))
		}
		if r.Apply == nil {
			return nil, errors.NewValidationError("rules", r.Target, "rule has no transform")
		}
		targets[i] = idx
	}
	return &Mapping{id: id, canonical: canonical, rules: rules, targets: targets, disc: disc}, nil
}

// Source returns the source this translator serves.
func (t *Mapping) Source() sources.ID { return t.id }

// Translate applies every rule and stamps the discriminator last.
func (t *Mapping) Translate(src *schema.Record) *schema.Record {
	out := schema.NewRecord(t.canonical)
	if src != nil {
		for i, r := range t.rules {
			out.SetAt(t.targets[i], r.Apply(src))
		}
	}
	out.SetAt(t.disc, schema.Text(t.id.Code()))
	return out
}

func discriminator(id sources.ID, canonical *schema.Schema) (int, error) {
	if canonical == nil {
		return -1, errors.NewValidationError("canonical", nil, "schema is required")
	}
	if id.Code() == "" {
		return -1, errors.NewValidationError("source", id.String(), "no county code")
	}
	idx := canonical.Index(DiscriminatorField)
	if idx < 0 {
		return -1, errors.NewNotFoundError("field", DiscriminatorField)
	}
	return idx, nil
}
