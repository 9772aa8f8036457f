package domain

import "sort"

// Features holds numeric domain inputs keyed by feature name.
type Features map[string]float64

// Outcomes holds numeric response metrics keyed by metric name.
type Outcomes map[string]float64

// Clone returns a copy of the features. Nil stays nil.
func (f Features) Clone() Features {
	if f == nil {
		return nil
	}
	out := make(Features, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Clone returns a copy of the outcomes. Nil stays nil.
func (o Outcomes) Clone() Outcomes {
	if o == nil {
		return nil
	}
	out := make(Outcomes, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Keys returns metric names in ascending order.
func (o Outcomes) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
