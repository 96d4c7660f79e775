package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strings"

	"jobboard/internal/domain/job"
)

const (
	searchKeyPrefix = "jobs:search:"
	lockKeyPrefix   = "jobs:lock:"
)

type jobSearchCacheKeyInput struct {
	Search          string   `json:"search"`
	Location        string   `json:"location"`
	SalaryMin       float64  `json:"salary_min"`
	SalaryMax       float64  `json:"salary_max"`
	Types           []string `json:"types"`
	Remote          *bool    `json:"remote"`
	ExperienceLevel []string `json:"experience_level"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// JobsSearchCacheKey hashes a filter into a stable key. Set members are
// sorted so equivalent filters share an entry.
func JobsSearchCacheKey(f job.Filter) string {
	types := make([]string, 0, len(f.JobType))
	for _, t := range f.JobType {
		types = append(types, string(t))
	}
	slices.Sort(types)
	levels := make([]string, 0, len(f.ExperienceLevel))
	for _, l := range f.ExperienceLevel {
		levels = append(levels, string(l))
	}
	slices.Sort(levels)

	in := jobSearchCacheKeyInput{
		Search:          normalizeSearchValue(f.Search),
		Location:        normalizeSearchValue(f.Location),
		SalaryMin:       f.SalaryRange.Min(),
		SalaryMax:       f.SalaryRange.Max(),
		Types:           slices.Compact(types),
		Remote:          f.Remote,
		ExperienceLevel: slices.Compact(levels),
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return searchKeyPrefix + hex.EncodeToString(sum[:])
}

func JobsSearchLockKey(searchKey string) string {
	searchKey = strings.TrimSpace(searchKey)
	return lockKeyPrefix + strings.TrimPrefix(searchKey, searchKeyPrefix)
}
