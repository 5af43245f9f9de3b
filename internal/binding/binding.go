// Package binding interprets and encodes parameter values.
//
// A stored value is either a literal string or a reference to an output of an
// upstream step, written as "#" followed by the output's technical name. The
// same string form is used on the wire, where each parameter travels as a
// "name=value" pair.
//
// A literal that happens to start with "#" cannot be told apart from a
// reference. Decoding falls back to the raw string whenever the name after "#"
// is not a visible output, so such literals still display as typed.
package binding

import (
	"strings"

	"areactl/internal/catalog"
	"areactl/internal/draft"
)

// RefPrefix marks a stored value as a reference to an upstream output.
const RefPrefix = "#"

// Ref encodes a reference to the output with the given technical name.
func Ref(output string) string {
	return RefPrefix + output
}

// Reference reports whether value has the reference form and returns the
// referenced output name.
func Reference(value string) (string, bool) {
	if !strings.HasPrefix(value, RefPrefix) {
		return "", false
	}
	return strings.TrimPrefix(value, RefPrefix), true
}

// Lookup returns the visible output a reference value points at.
func Lookup(value string, visible []catalog.OutputDef) (catalog.OutputDef, bool) {
	name, ok := Reference(value)
	if !ok {
		return catalog.OutputDef{}, false
	}
	for _, o := range visible {
		if o.Name == name {
			return o, true
		}
	}
	return catalog.OutputDef{}, false
}

// Decode returns the text to show for a stored value: the display name of the
// referenced output when it is visible, the raw value otherwise.
func Decode(value string, visible []catalog.OutputDef) string {
	if o, ok := Lookup(value, visible); ok {
		return o.Label()
	}
	return value
}

// IsDangling reports whether value has the reference form but names no visible output.
func IsDangling(value string, visible []catalog.OutputDef) bool {
	if _, ok := Reference(value); !ok {
		return false
	}
	_, ok := Lookup(value, visible)
	return !ok
}

// MatchDisplayName finds the visible output whose display name equals text exactly.
// Front-ends use it to turn a typed output label into a reference.
func MatchDisplayName(text string, visible []catalog.OutputDef) (catalog.OutputDef, bool) {
	if text == "" {
		return catalog.OutputDef{}, false
	}
	for _, o := range visible {
		if o.Label() == text {
			return o, true
		}
	}
	return catalog.OutputDef{}, false
}

// Serialize encodes values as "name=value" pairs in order, dropping blank values.
func Serialize(values []draft.ParameterValue) []string {
	pairs := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v.Value) == "" {
			continue
		}
		pairs = append(pairs, v.Name+"="+v.Value)
	}
	return pairs
}

// SplitPair splits a "name=value" pair on its first "=". A pair without "="
// is all name and an empty value.
func SplitPair(pair string) (name, value string) {
	name, value, _ = strings.Cut(pair, "=")
	return name, value
}

// Deserialize rebuilds one value per declared parameter from persisted pairs.
// Parameters with no pair get an empty value; pairs naming undeclared
// parameters are ignored. When a name repeats, the last pair wins.
func Deserialize(pairs []string, defs []catalog.ParameterDef) []draft.ParameterValue {
	stored := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value := SplitPair(p)
		stored[name] = value
	}

	values := draft.EmptyValues(defs)
	for i := range values {
		values[i].Value = stored[values[i].Name]
	}
	return values
}
