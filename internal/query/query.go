// Package query turns a structured Japanese address into ranked geocoder candidate strings.
package query

import (
	"iter"
	"slices"
	"strings"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/internal/normalize"
)

// Candidates is an ordered list of query strings, most specific first, without blanks or duplicates.
type Candidates []string

// All yields the candidates in priority order. Callers stop ranging at the first hit.
func (c Candidates) All() iter.Seq[string] {
	return slices.Values(c)
}

// Plan bundles the candidate lists for the specialised and the general-purpose geocoder.
// The two providers prefer differently shaped queries, so each gets its own list.
type Plan struct {
	Primary   Candidates
	Secondary Candidates
}

// Empty reports whether the plan has nothing to ask either provider.
func (p Plan) Empty() bool {
	return len(p.Primary) == 0 && len(p.Secondary) == 0
}

// NewPlan builds both candidate lists for in.
func NewPlan(in models.AddressInput) Plan {
	return Plan{
		Primary:   Build(in),
		Secondary: BuildSecondary(in),
	}
}

// fields are the normalized address parts shared by both builders.
type fields struct {
	postal     string
	prefecture string
	city       string
	street     string
}

func prepare(in models.AddressInput) fields {
	pref := strings.TrimSpace(in.Prefecture)

	return fields{
		postal:     models.CanonicalPostalCode(in.PostalCode),
		prefecture: pref,
		city:       normalize.Field(in.CityTown, pref),
		street:     normalize.Field(in.Street, pref),
	}
}

// Build returns the primary candidates for in, in this order:
//
//  1. the postal code alone;
//  2. prefecture, city/town and street as given;
//  3. the street rewritten to chome notation, then to plain hyphen notation;
//  4. the core block number with the remaining words in original and reversed order,
//     then prefecture, city/town and the core number only;
//  5. prefecture and city/town, or the prefecture alone when there is no city/town.
//
// The result is never empty when a prefecture is present.
func Build(in models.AddressInput) Candidates {
	f := prepare(in)
	b := newBuilder()

	b.add(f.postal)
	b.add(f.prefecture, f.city, f.street)

	if f.street != "" {
		hyphen := toHyphen(f.street)

		b.add(f.prefecture, f.city, toChome(f.street))
		b.add(f.prefecture, f.city, hyphen)

		if core, rest := splitCore(hyphen); core != "" {
			words := append(strings.Fields(f.city), strings.Fields(rest)...)

			b.add(f.prefecture, strings.Join(words, " "), core)
			b.add(f.prefecture, strings.Join(reversed(words), " "), core)
			b.add(f.prefecture, f.city, core)
		}
	}

	b.add(f.prefecture, f.city)

	return b.out
}

// BuildSecondary returns candidates shaped for a general-purpose geocoder: the spaced full
// address, the concatenated chome form, western comma order, and the concatenated area.
func BuildSecondary(in models.AddressInput) Candidates {
	f := prepare(in)
	b := newBuilder()

	b.add(f.prefecture, f.city, f.street)

	if f.street != "" {
		chome := toChome(f.street)

		b.addRaw(f.prefecture + compact(f.city) + compact(chome))
		b.addRaw(joinNonEmpty(", ", chome, f.city, f.prefecture))
	}

	b.addRaw(joinNonEmpty(", ", f.city, f.prefecture))
	b.addRaw(f.prefecture + compact(f.city))

	return b.out
}

type builder struct {
	seen map[string]struct{}
	out  Candidates
}

func newBuilder() *builder {
	return &builder{seen: make(map[string]struct{})}
}

// add joins the non-empty parts with single spaces.
func (b *builder) add(parts ...string) {
	b.addRaw(joinNonEmpty(" ", parts...))
}

func (b *builder) addRaw(candidate string) {
	candidate = strings.Join(strings.Fields(candidate), " ")
	if candidate == "" {
		return
	}
	if _, ok := b.seen[candidate]; ok {
		return
	}

	b.seen[candidate] = struct{}{}
	b.out = append(b.out, candidate)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}

	return strings.Join(kept, sep)
}

func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func reversed(words []string) []string {
	out := slices.Clone(words)
	slices.Reverse(out)

	return out
}
