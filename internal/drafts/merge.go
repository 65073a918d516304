package drafts

import "github.com/haroldnikoue/storefront-backend/pkg/types"

// MergeDraftData shallow-merges incoming draft fields over existing ones.
// Newer fields overwrite same-named older fields, untouched fields survive,
// and neither input map is mutated. Applying the same incoming data twice
// yields the same result as applying it once.
func MergeDraftData(existing, incoming types.DraftData) types.DraftData {
	merged := existing.Clone()
	if merged == nil {
		merged = types.DraftData{}
	}
	for key, value := range incoming {
		merged[key] = value
	}
	return merged
}
