// Package core provides filtering and lookup over notice history.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmylchreest/fsnotice/internal/model"
)

// FilterOptions specifies criteria for filtering notices.
type FilterOptions struct {
	Since  time.Duration // Only notices active within now-since (0=all)
	Search string        // Case-insensitive substring of the text
	Source string        // Exact match on source
	Color  string        // Exact match on normalized color
	Limit  int           // Maximum results (0=unlimited)
}

// Filter filters notices based on the provided options. Order is preserved.
func Filter(notices []model.Notice, opts FilterOptions) []model.Notice {
	now := time.Now()
	term := strings.ToLower(opts.Search)
	result := make([]model.Notice, 0, len(notices))

	for _, n := range notices {
		if opts.Since > 0 {
			cutoff := now.Add(-opts.Since)
			if time.Unix(activeAt(n), 0).Before(cutoff) {
				continue
			}
		}

		if term != "" && !strings.Contains(strings.ToLower(n.Text), term) {
			continue
		}

		if opts.Source != "" && n.Source != opts.Source {
			continue
		}

		if opts.Color != "" && !strings.EqualFold(n.Color, opts.Color) {
			continue
		}

		result = append(result, n)
	}

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}

	return result
}

// ParseDuration parses a duration string with extended formats.
// Supports: 48h, 7d, 1w, 0 (all time)
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if s == "0" || s == "" {
		return 0, nil
	}

	// Handle day suffix (7d -> 168h)
	if daysStr, found := strings.CutSuffix(s, "d"); found {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	// Handle week suffix (1w -> 168h)
	if weeksStr, found := strings.CutSuffix(s, "w"); found {
		weeks, err := strconv.Atoi(weeksStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(weeks) * 7 * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration: %s", s)
	}
	return d, nil
}

func activeAt(n model.Notice) int64 {
	if n.PresentedAt > 0 {
		return n.PresentedAt
	}
	return n.CreatedAt
}
