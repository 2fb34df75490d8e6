package model

// Selection maps a filter field to the single value selected for it.
// A missing or empty entry imposes no constraint.
type Selection map[Field]string

// Clone returns an independent copy of the selection
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Active reports whether at least one field carries a value
func (s Selection) Active() bool {
	for _, v := range s {
		if v != "" {
			return true
		}
	}
	return false
}
