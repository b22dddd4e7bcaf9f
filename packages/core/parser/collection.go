package parser

import "fmt"

// PairFunc receives one name/value pair of a collection. Returning an error
// stops the iteration.
type PairFunc func(name, value string) error

// CollectionError reports a collection with the wrong shape or a pair whose
// sides are not strings.
type CollectionError struct {
	Label     string
	Form      string // "name/value" or "key/value", empty for a shape error
	NameKind  Kind
	ValueKind Kind
	Kind      Kind // kind of the collection itself, set for shape errors
}

func (e *CollectionError) Error() string {
	if e.Form == "" {
		return fmt.Sprintf("invalid %s: expected array or object", e.Label)
	}
	return fmt.Sprintf("invalid %s entry: %s must be strings (got %s/%s)",
		e.Label, e.Form, e.NameKind, e.ValueKind)
}

// EachPair walks the collection at index and calls fn for every pair in
// document order. Absent is a no-op.
//
// Two shapes are accepted. A plain object yields its own key/value pairs. An
// array yields one pair per object element, reading "name" (falling back to
// "key") and "value"; elements that are not objects or lack either side are
// skipped. Pairs already handed to fn are not undone when a later one fails.
func (d *Document) EachPair(index int, label string, fn PairFunc) error {
	if index == Absent {
		return nil
	}

	switch d.Kind(index) {
	case KindArray:
		i := index + 1
		for e := 0; e < d.tokens[index].Size; e++ {
			elem := i
			i = d.Skip(elem)
			if d.tokens[elem].Kind != KindObject {
				continue
			}

			nameIdx, ok := d.Field(elem, "name")
			if !ok {
				nameIdx, ok = d.Field(elem, "key")
			}
			valueIdx, hasValue := d.Field(elem, "value")
			if !ok || !hasValue {
				continue
			}

			if err := d.yield(nameIdx, valueIdx, label, "name/value", fn); err != nil {
				return err
			}
		}
		return nil

	case KindObject:
		i := index + 1
		for pair := 0; pair < d.tokens[index].Size/2; pair++ {
			keyIdx, valueIdx := i, i+1
			if err := d.yield(keyIdx, valueIdx, label, "key/value", fn); err != nil {
				return err
			}
			i = d.Skip(valueIdx)
		}
		return nil

	default:
		return &CollectionError{Label: label, Kind: d.Kind(index)}
	}
}

func (d *Document) yield(nameIdx, valueIdx int, label, form string, fn PairFunc) error {
	name, nameOK := d.Text(nameIdx)
	value, valueOK := d.Text(valueIdx)
	if !nameOK || !valueOK {
		return &CollectionError{
			Label:     label,
			Form:      form,
			NameKind:  d.Kind(nameIdx),
			ValueKind: d.Kind(valueIdx),
		}
	}
	return fn(name, value)
}
