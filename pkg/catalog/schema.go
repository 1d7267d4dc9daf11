package catalog

import (
	"fmt"
	"strings"
	"time"
)

// fieldRule selects the coercion a declared field receives.
type fieldRule int

const (
	// ruleBool keeps true only for boolean true or the literal string "true".
	ruleBool fieldRule = iota
	// ruleFloat parses numeric text; anything unparseable becomes 0.
	ruleFloat
	// ruleInt parses integral text, truncating fractions; fallback 0.
	ruleInt
	// ruleStringList keeps sequences and splits comma-separated text.
	ruleStringList
	// ruleJSONArray parses embedded JSON text. Creation rejects text that
	// does not parse; updates degrade it to an empty sequence.
	ruleJSONArray
	// ruleJSONObject parses embedded JSON text. Creation rejects text that
	// does not parse; updates degrade it to an empty mapping.
	ruleJSONObject
	// ruleImageList keeps sequences only. Image names are supplied by the
	// upload layer, so any other shape collapses to empty.
	ruleImageList
)

// schema describes how one kind's documents are assembled: which declared
// fields are coerced and how, which fields the normalized result strips,
// where the slug comes from, and the hooks that derive fields. Undeclared
// fields pass through untouched.
type schema struct {
	fields      map[string]fieldRule
	strip       []string
	slugSources []string
	hasSlug     bool
	onCreate    func(doc Document, now time.Time)
	onUpdate    func(patch Document)
}

var schemas = map[Kind]schema{
	KindBeans: {
		fields: map[string]fieldRule{
			"isFeatured":         ruleBool,
			"inStock":            ruleBool,
			"discountPercentage": ruleFloat,
			"keywords":           ruleStringList,
			"cupping_notes":      ruleStringList,
			"images":             ruleImageList,
			"variants":           ruleJSONArray,
		},
		slugSources: []string{"name"},
		hasSlug:     true,
		onCreate:    productCreateHook,
		onUpdate:    syncVariantPrice,
	},
	KindMachines: {
		fields: map[string]fieldRule{
			"isFeatured":         ruleBool,
			"inStock":            ruleBool,
			"discountPercentage": ruleFloat,
			"keywords":           ruleStringList,
			"images":             ruleImageList,
			"specifications":     ruleJSONObject,
			"features":           ruleJSONObject,
		},
		slugSources: []string{"name"},
		hasSlug:     true,
	},
	KindSyrups: {
		fields: map[string]fieldRule{
			"isFeatured":         ruleBool,
			"inStock":            ruleBool,
			"discountPercentage": ruleFloat,
			"keywords":           ruleStringList,
			"images":             ruleImageList,
			"variants":           ruleJSONArray,
		},
		slugSources: []string{"name"},
		hasSlug:     true,
		onCreate:    productCreateHook,
		onUpdate:    syncVariantPrice,
	},
	KindSauces: {
		fields: map[string]fieldRule{
			"isFeatured":         ruleBool,
			"inStock":            ruleBool,
			"discountPercentage": ruleFloat,
			"keywords":           ruleStringList,
			"images":             ruleImageList,
			"variants":           ruleJSONArray,
		},
		slugSources: []string{"name"},
		hasSlug:     true,
		onCreate:    productCreateHook,
		onUpdate:    syncVariantPrice,
	},
	KindBlogs: {
		fields: map[string]fieldRule{
			"isFeatured": ruleBool,
			"keywords":   ruleStringList,
			"images":     ruleImageList,
		},
		strip:       []string{"inStock"},
		slugSources: []string{"title"},
		hasSlug:     true,
		onCreate:    blogCreateHook,
		onUpdate:    blogUpdateHook,
	},
	KindOrders: {
		fields: map[string]fieldRule{
			"isPaid":      ruleBool,
			"totalAmount": ruleFloat,
			"items":       ruleJSONArray,
		},
		strip:    []string{"slug", "keywords", "images", "isFeatured", "inStock"},
		onCreate: orderCreateHook,
	},
	KindCoupons: {
		fields: map[string]fieldRule{
			"isActive":    ruleBool,
			"value":       ruleFloat,
			"maxDiscount": ruleFloat,
			"maxUses":     ruleInt,
		},
		strip:       []string{"inStock"},
		slugSources: []string{"name"},
		hasSlug:     true,
		onCreate:    couponCreateHook,
		onUpdate:    couponUpdateHook,
	},
}

func schemaFor(kind Kind) (schema, error) {
	sc, ok := schemas[kind]
	if !ok {
		return schema{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return sc, nil
}

// slugSource returns the first non-empty slug source value, falling back
// to the literal "item".
func slugSource(sc schema, doc Document) string {
	for _, name := range sc.slugSources {
		if s, ok := doc[name].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return "item"
}
