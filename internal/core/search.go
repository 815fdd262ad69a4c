package core

import (
	"github.com/sahilm/fuzzy"

	"github.com/jmylchreest/fsnotice/internal/model"
)

// noticeSource adapts a notice slice to fuzzy.Source.
type noticeSource []model.Notice

func (s noticeSource) String(i int) string { return s[i].Text }
func (s noticeSource) Len() int            { return len(s) }

// FuzzySearch returns notices whose text fuzzy-matches pattern, best match
// first. An empty pattern returns notices unchanged.
func FuzzySearch(notices []model.Notice, pattern string) []model.Notice {
	if pattern == "" {
		return notices
	}

	matches := fuzzy.FindFrom(pattern, noticeSource(notices))
	result := make([]model.Notice, 0, len(matches))
	for _, m := range matches {
		result = append(result, notices[m.Index])
	}
	return result
}
