package core

import (
	"strconv"

	"github.com/jmylchreest/fsnotice/internal/model"
)

// LookupByID finds a notice by its ID.
// Returns nil if not found.
func LookupByID(notices []model.Notice, id string) *model.Notice {
	for i := range notices {
		if notices[i].ID == id {
			return &notices[i]
		}
	}
	return nil
}

// LookupByIndex finds a notice by its index (1-based for user-friendliness).
// Returns nil if index is out of bounds.
func LookupByIndex(notices []model.Notice, index int) *model.Notice {
	idx := index - 1
	if idx < 0 || idx >= len(notices) {
		return nil
	}
	return &notices[idx]
}

// Lookup resolves a 1-based index or an ID.
func Lookup(notices []model.Notice, ref string) *model.Notice {
	if idx, err := strconv.Atoi(ref); err == nil && idx > 0 {
		return LookupByIndex(notices, idx)
	}
	return LookupByID(notices, ref)
}
