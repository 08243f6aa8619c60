package services

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var errTrailingData = errors.New("trailing data after document")

// Value kapselt einen rohen, untypisierten Dokument-Knoten.
// Alle Zugriffe sind fehlertolerant: fehlende Schlüssel, falsche Typen oder
// Indizes außerhalb des Bereichs liefern den leeren Value bzw. den Nullwert,
// niemals ein Panic.
type Value struct {
	raw any
}

// NewValue erzeugt einen Value über beliebigen dekodierten JSON-Daten.
func NewValue(raw any) Value {
	return Value{raw: raw}
}

// DecodeDocument parst text strikt als ein einzelnes JSON-Dokument.
// Zahlen bleiben als json.Number erhalten, damit Preisrohwerte ihre
// Nachkommastellen-Information nicht verlieren.
func DecodeDocument(text string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, err
	}
	// Hinter dem ersten Wert darf nur noch Whitespace folgen.
	if dec.More() {
		return Value{}, errTrailingData
	}
	return Value{raw: raw}, nil
}

// IsNil meldet, ob der Knoten fehlt oder JSON-null ist.
func (v Value) IsNil() bool {
	return v.raw == nil
}

// Get liefert das Objektfeld key oder den leeren Value.
func (v Value) Get(key string) Value {
	if m, ok := v.raw.(map[string]any); ok {
		return Value{raw: m[key]}
	}
	return Value{}
}

// Path folgt einer Kette von Objektfeldern.
func (v Value) Path(keys ...string) Value {
	cur := v
	for _, k := range keys {
		cur = cur.Get(k)
	}
	return cur
}

// Index liefert das i-te Array-Element oder den leeren Value.
func (v Value) Index(i int) Value {
	if a, ok := v.raw.([]any); ok && i >= 0 && i < len(a) {
		return Value{raw: a[i]}
	}
	return Value{}
}

// Arr liefert alle Array-Elemente (nil, wenn kein Array).
func (v Value) Arr() []Value {
	a, ok := v.raw.([]any)
	if !ok {
		return nil
	}
	out := make([]Value, len(a))
	for i, e := range a {
		out[i] = Value{raw: e}
	}
	return out
}

// IsObject meldet, ob der Knoten ein Objekt ist.
func (v Value) IsObject() bool {
	_, ok := v.raw.(map[string]any)
	return ok
}

// Keys liefert die Schlüssel eines Objektknotens in undefinierter Reihenfolge.
func (v Value) Keys() []string {
	m, ok := v.raw.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// Str liefert den Stringwert; Zahlen werden formatiert, alles andere wird "".
func (v Value) Str() string {
	switch t := v.raw.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

// Num liefert den Zahlenwert; Strings werden geparst, alles andere wird 0.
func (v Value) Num() float64 {
	switch t := v.raw.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return f
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// Int liefert den ganzzahligen Wert des Knotens.
func (v Value) Int() int {
	return int(v.Num())
}

// truthy entspricht der Leer-Prüfung der Merge-Regel: vorhandene, nicht-leere
// Werte gewinnen gegen den jeweils anderen Schema-Zweig.
func (v Value) truthy() bool {
	switch t := v.raw.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		return t.String() != "0" && t.String() != ""
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

// First liefert den ersten truthy Value der Kandidaten, sonst den letzten.
// Reihenfolge der Argumente ist die Merge-Priorität (modern vor legacy).
func First(candidates ...Value) Value {
	for _, c := range candidates {
		if c.truthy() {
			return c
		}
	}
	if len(candidates) > 0 {
		return candidates[len(candidates)-1]
	}
	return Value{}
}
