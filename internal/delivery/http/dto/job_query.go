package dto

import (
	"fmt"
	"strconv"
	"strings"

	"jobboard/internal/domain/job"
)

// JobQuery is the raw query string of GET /api/jobs.
type JobQuery struct {
	Search          string
	Location        string
	Remote          string
	SalaryMin       string
	SalaryMax       string
	Type            string
	ExperienceLevel string
}

// Filter converts the query into a job.Filter on top of the defaults.
// Unknown enum values and malformed numbers are rejected.
func (q JobQuery) Filter() (job.Filter, error) {
	f := job.DefaultFilter()
	f.Search = strings.TrimSpace(q.Search)
	f.Location = strings.TrimSpace(q.Location)

	if v := strings.TrimSpace(q.Remote); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return job.Filter{}, fmt.Errorf("remote: %w", err)
		}
		f.Remote = &b
	}

	lo, hi := f.SalaryRange.Min(), f.SalaryRange.Max()
	var err error
	if lo, err = parseAmount(q.SalaryMin, lo); err != nil {
		return job.Filter{}, fmt.Errorf("salaryMin: %w", err)
	}
	if hi, err = parseAmount(q.SalaryMax, hi); err != nil {
		return job.Filter{}, fmt.Errorf("salaryMax: %w", err)
	}
	f = f.Merge(job.FilterPatch{SalaryRange: &job.SalaryRange{lo, hi}})

	for _, raw := range splitCSV(q.Type) {
		t, err := job.ParseType(raw)
		if err != nil {
			return job.Filter{}, err
		}
		f.JobType = append(f.JobType, t)
	}
	for _, raw := range splitCSV(q.ExperienceLevel) {
		l, err := job.ParseExperienceLevel(raw)
		if err != nil {
			return job.Filter{}, err
		}
		f.ExperienceLevel = append(f.ExperienceLevel, l)
	}
	return f, nil
}

func parseAmount(raw string, def float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative amount %v", v)
	}
	return v, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
