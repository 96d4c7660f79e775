package job

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

const (
	DefaultSalaryMin = 0
	DefaultSalaryMax = 200000
)

// SalaryRange is an inclusive [min, max] bound on Job.Salary.
type SalaryRange [2]float64

func (r SalaryRange) Min() float64 { return r[0] }
func (r SalaryRange) Max() float64 { return r[1] }

func (r SalaryRange) normalized() SalaryRange {
	if r[0] > r[1] {
		return SalaryRange{r[1], r[0]}
	}
	return r
}

// Filter is the active search state. Empty strings and empty sets mean
// "no constraint"; a nil Remote leaves remote-ness unconstrained.
type Filter struct {
	Search          string            `json:"search"`
	Location        string            `json:"location"`
	SalaryRange     SalaryRange       `json:"salaryRange"`
	JobType         []Type            `json:"jobType"`
	Remote          *bool             `json:"remote,omitempty"`
	ExperienceLevel []ExperienceLevel `json:"experienceLevel,omitempty"`
}

func DefaultFilter() Filter {
	return Filter{
		SalaryRange: SalaryRange{DefaultSalaryMin, DefaultSalaryMax},
		JobType:     []Type{},
	}
}

// FilterPatch is a partial update merged into a Filter. Nil fields are left
// untouched; a non-nil empty slice clears that set constraint.
type FilterPatch struct {
	Search          *string
	Location        *string
	SalaryRange     *SalaryRange
	JobType         []Type
	Remote          *bool
	ClearRemote     bool
	ExperienceLevel []ExperienceLevel
}

func (p FilterPatch) IsEmpty() bool {
	return p.Search == nil && p.Location == nil && p.SalaryRange == nil &&
		p.JobType == nil && p.Remote == nil && !p.ClearRemote && p.ExperienceLevel == nil
}

// Merge returns f with p applied. f is not modified.
func (f Filter) Merge(p FilterPatch) Filter {
	out := f.Clone()
	if p.Search != nil {
		out.Search = *p.Search
	}
	if p.Location != nil {
		out.Location = *p.Location
	}
	if p.SalaryRange != nil {
		out.SalaryRange = p.SalaryRange.normalized()
	}
	if p.JobType != nil {
		out.JobType = slices.Clone(p.JobType)
	}
	if p.ClearRemote {
		out.Remote = nil
	}
	if p.Remote != nil {
		v := *p.Remote
		out.Remote = &v
	}
	if p.ExperienceLevel != nil {
		out.ExperienceLevel = slices.Clone(p.ExperienceLevel)
	}
	return out
}

func (f Filter) Clone() Filter {
	out := f
	if f.JobType != nil {
		out.JobType = slices.Clone(f.JobType)
	}
	if f.ExperienceLevel != nil {
		out.ExperienceLevel = slices.Clone(f.ExperienceLevel)
	}
	if f.Remote != nil {
		v := *f.Remote
		out.Remote = &v
	}
	return out
}

// IsDefault reports whether f constrains nothing beyond the default range.
func (f Filter) IsDefault() bool {
	return f.Search == "" && f.Location == "" &&
		f.SalaryRange == (SalaryRange{DefaultSalaryMin, DefaultSalaryMax}) &&
		len(f.JobType) == 0 && f.Remote == nil && len(f.ExperienceLevel) == 0
}

// Matches reports whether j satisfies every active predicate of f.
func (f Filter) Matches(j Job) bool {
	return newMatcher(f).matches(j)
}

// Apply returns the jobs satisfying f, in their original order. The result
// is never nil.
func (f Filter) Apply(jobs []Job) []Job {
	m := newMatcher(f)
	out := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if m.matches(j) {
			out = append(out, j)
		}
	}
	return out
}

// matcher holds the folded needles for one evaluation pass. A cases.Caser
// is stateful, so each pass gets its own.
type matcher struct {
	f        Filter
	fold     cases.Caser
	search   string
	location string
}

func newMatcher(f Filter) *matcher {
	m := &matcher{f: f, fold: cases.Fold()}
	m.search = m.fold.String(f.Search)
	m.location = m.fold.String(f.Location)
	return m
}

func (m *matcher) contains(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(m.fold.String(haystack), needle)
}

func (m *matcher) matches(j Job) bool {
	if m.search != "" {
		if !m.contains(j.Title, m.search) && !m.contains(j.Company, m.search) && !m.contains(j.Description, m.search) {
			return false
		}
	}
	if !m.contains(j.Location, m.location) {
		return false
	}
	r := m.f.SalaryRange
	if j.Salary < r.Min() || j.Salary > r.Max() {
		return false
	}
	if len(m.f.JobType) > 0 && !slices.Contains(m.f.JobType, j.Type) {
		return false
	}
	if m.f.Remote != nil && j.Remote != *m.f.Remote {
		return false
	}
	if len(m.f.ExperienceLevel) > 0 && !slices.Contains(m.f.ExperienceLevel, j.ExperienceLevel) {
		return false
	}
	return true
}
