// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultTemperature is used when no temperature has been set.
	DefaultTemperature = 0.7

	// DefaultTopP is used when no top_p has been set.
	DefaultTopP = 0.9
)

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session is the user-editable chat configuration.
// The JSON field names are the persisted layout and must not change.
type Session struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`

	// APIKey is stored in plaintext. It is only ever sent for remote providers.
	APIKey string `json:"apiKey"`
}

// Defaults returns the session used when nothing has been persisted.
func Defaults(defaultProvider string) Session {
	return Session{
		Provider:    defaultProvider,
		Model:       "",
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
		APIKey:      "",
	}
}

// UnmarshalJSON fills absent numeric fields with their defaults.
func (s *Session) UnmarshalJSON(data []byte) error {
	type plain Session
	decoded := plain{Temperature: DefaultTemperature, TopP: DefaultTopP}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*s = Session(decoded)
	return nil
}

// valid reports whether the numeric fields hold usable values.
func (s Session) valid() bool {
	return !math.IsNaN(s.Temperature) && !math.IsInf(s.Temperature, 0) &&
		!math.IsNaN(s.TopP) && !math.IsInf(s.TopP, 0)
}

// HasAPIKey reports whether a credential is stored.
func (s Session) HasAPIKey() bool {
	return s.APIKey != ""
}

// MaskedAPIKey returns the key with all but the last four characters hidden.
func (s Session) MaskedAPIKey() string {
	if s.APIKey == "" {
		return ""
	}
	runes := []rune(s.APIKey)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", 8) + string(runes[len(runes)-4:])
}

// =============================================================================
// PATCH
// =============================================================================

// Patch is a partial session. Nil fields leave the current value untouched.
type Patch struct {
	Provider    *string
	Model       *string
	Temperature *float64
	TopP        *float64
	APIKey      *string
}

// Apply merges p into s and returns the result. s is not modified.
func (p Patch) Apply(s Session) Session {
	if p.Provider != nil {
		s.Provider = *p.Provider
	}
	if p.Model != nil {
		s.Model = *p.Model
	}
	if p.Temperature != nil {
		s.Temperature = *p.Temperature
	}
	if p.TopP != nil {
		s.TopP = *p.TopP
	}
	if p.APIKey != nil {
		s.APIKey = *p.APIKey
	}
	return s
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Provider == nil && p.Model == nil && p.Temperature == nil &&
		p.TopP == nil && p.APIKey == nil
}

// Helpers for building patches inline.

func WithProvider(id string) Patch { return Patch{Provider: &id} }
func WithModel(model string) Patch { return Patch{Model: &model} }
func WithTemperature(t float64) Patch { return Patch{Temperature: &t} }
func WithTopP(p float64) Patch { return Patch{TopP: &p} }
func WithAPIKey(key string) Patch { return Patch{APIKey: &key} }

// =============================================================================
// FORM FIELDS
// =============================================================================

// Form field names accepted by FieldPatch.
const (
	FieldProvider    = "provider"
	FieldModel       = "model"
	FieldTemperature = "temperature"
	FieldTopP        = "top_p"
	FieldAPIKey      = "api_key"
)

// Fields lists every editable field name.
var Fields = []string{FieldProvider, FieldModel, FieldTemperature, FieldTopP, FieldAPIKey}

// CoerceNumber converts form input to a number. Empty or unparseable input
// yields def.
func CoerceNumber(text string, def float64) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return def
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// FieldPatch builds a single-field patch from a named form field.
func FieldPatch(field, text string) (Patch, error) {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case FieldProvider:
		return WithProvider(strings.TrimSpace(text)), nil
	case FieldModel:
		return WithModel(text), nil
	case FieldTemperature, "temp":
		return WithTemperature(CoerceNumber(text, DefaultTemperature)), nil
	case FieldTopP, "topp", "top-p":
		return WithTopP(CoerceNumber(text, DefaultTopP)), nil
	case FieldAPIKey, "apikey", "key":
		return WithAPIKey(text), nil
	default:
		return Patch{}, fmt.Errorf("unknown session field %q (expected one of %s)",
			field, strings.Join(Fields, ", "))
	}
}
