package types

// DraftData holds the partial, evolving checkout form state. Keys are the
// client-side field names; values stay as decoded JSON so unfinished forms
// round-trip without loss.
type DraftData map[string]any

// Clone returns a shallow copy so merges never mutate the stored map.
func (d DraftData) Clone() DraftData {
	if d == nil {
		return nil
	}
	out := make(DraftData, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
