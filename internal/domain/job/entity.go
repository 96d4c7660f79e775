package job

import (
	"fmt"
	"strings"
	"time"
)

type Type string

const (
	TypeFullTime   Type = "full-time"
	TypePartTime   Type = "part-time"
	TypeContract   Type = "contract"
	TypeInternship Type = "internship"
	TypeRemote     Type = "remote"
)

type Status string

const (
	StatusActive Status = "active"
	StatusDraft  Status = "draft"
	StatusPaused Status = "paused"
	StatusClosed Status = "closed"
)

type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
	ExperienceLead   ExperienceLevel = "lead"
)

type EducationLevel string

const (
	EducationHighSchool EducationLevel = "high-school"
	EducationAssociate  EducationLevel = "associate"
	EducationBachelor   EducationLevel = "bachelor"
	EducationMaster     EducationLevel = "master"
	EducationPhD        EducationLevel = "phd"
)

type SalaryPeriod string

const (
	PeriodYear  SalaryPeriod = "year"
	PeriodMonth SalaryPeriod = "month"
	PeriodHour  SalaryPeriod = "hour"
)

// Job is a posted position. ID and PostedAt are assigned once at creation.
type Job struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Company          string          `json:"company"`
	CompanyID        string          `json:"companyId"`
	CompanyLogo      string          `json:"companyLogo,omitempty"`
	Location         string          `json:"location"`
	Remote           bool            `json:"remote"`
	Salary           float64         `json:"salary"`
	SalaryCurrency   string          `json:"salaryCurrency"`
	SalaryPeriod     SalaryPeriod    `json:"salaryPeriod"`
	Type             Type            `json:"type"`
	Status           Status          `json:"status"`
	PostedAt         time.Time       `json:"postedAt"`
	ExpiresAt        *time.Time      `json:"expiresAt,omitempty"`
	Description      string          `json:"description"`
	Responsibilities []string        `json:"responsibilities"`
	Requirements     []string        `json:"requirements"`
	Benefits         []string        `json:"benefits"`
	Skills           []string        `json:"skills"`
	ExperienceLevel  ExperienceLevel `json:"experienceLevel"`
	EducationLevel   EducationLevel  `json:"educationLevel,omitempty"`
	ApplicantsCount  int             `json:"applicantsCount"`
	ViewsCount       int             `json:"viewsCount"`
}

// NewJob is the creation payload: everything the poster supplies. Identity,
// timestamps, status and counters are assigned by whoever materializes it.
type NewJob struct {
	Title            string          `json:"title" validate:"required"`
	Company          string          `json:"company" validate:"required"`
	CompanyID        string          `json:"companyId"`
	CompanyLogo      string          `json:"companyLogo,omitempty"`
	Location         string          `json:"location" validate:"required"`
	Remote           bool            `json:"remote"`
	Salary           float64         `json:"salary" validate:"gte=0"`
	SalaryCurrency   string          `json:"salaryCurrency"`
	SalaryPeriod     SalaryPeriod    `json:"salaryPeriod" validate:"omitempty,oneof=year month hour"`
	Type             Type            `json:"type" validate:"required,oneof=full-time part-time contract internship remote"`
	ExpiresAt        *time.Time      `json:"expiresAt,omitempty"`
	Description      string          `json:"description" validate:"required"`
	Responsibilities []string        `json:"responsibilities"`
	Requirements     []string        `json:"requirements" validate:"min=1"`
	Benefits         []string        `json:"benefits"`
	Skills           []string        `json:"skills"`
	ExperienceLevel  ExperienceLevel `json:"experienceLevel" validate:"omitempty,oneof=entry mid senior lead"`
	EducationLevel   EducationLevel  `json:"educationLevel,omitempty" validate:"omitempty,oneof=high-school associate bachelor master phd"`
}

// Materialize builds a Job from the payload with the given identity and
// posting time. Status defaults to active, counters start at zero and
// omitted sequences become empty.
func (in NewJob) Materialize(id string, postedAt time.Time) Job {
	period := in.SalaryPeriod
	if period == "" {
		period = PeriodYear
	}
	currency := in.SalaryCurrency
	if currency == "" {
		currency = "USD"
	}
	return Job{
		ID:               id,
		Title:            in.Title,
		Company:          in.Company,
		CompanyID:        in.CompanyID,
		CompanyLogo:      in.CompanyLogo,
		Location:         in.Location,
		Remote:           in.Remote,
		Salary:           in.Salary,
		SalaryCurrency:   currency,
		SalaryPeriod:     period,
		Type:             in.Type,
		Status:           StatusActive,
		PostedAt:         postedAt.UTC(),
		ExpiresAt:        copyTime(in.ExpiresAt),
		Description:      in.Description,
		Responsibilities: orEmpty(in.Responsibilities),
		Requirements:     orEmpty(in.Requirements),
		Benefits:         orEmpty(in.Benefits),
		Skills:           orEmpty(in.Skills),
		ExperienceLevel:  in.ExperienceLevel,
		EducationLevel:   in.EducationLevel,
	}
}

// Clone returns a copy that shares no slices or pointers with j.
func (j Job) Clone() Job {
	out := j
	out.Responsibilities = cloneStrings(j.Responsibilities)
	out.Requirements = cloneStrings(j.Requirements)
	out.Benefits = cloneStrings(j.Benefits)
	out.Skills = cloneStrings(j.Skills)
	out.ExpiresAt = copyTime(j.ExpiresAt)
	return out
}

// Expired reports whether the posting has an expiry at or before now.
func (j Job) Expired(now time.Time) bool {
	return j.ExpiresAt != nil && !now.Before(*j.ExpiresAt)
}

func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeFullTime, TypePartTime, TypeContract, TypeInternship, TypeRemote:
		return t, nil
	}
	return "", fmt.Errorf("unknown job type %q", s)
}

func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	l := ExperienceLevel(strings.ToLower(strings.TrimSpace(s)))
	switch l {
	case ExperienceEntry, ExperienceMid, ExperienceSenior, ExperienceLead:
		return l, nil
	}
	return "", fmt.Errorf("unknown experience level %q", s)
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusActive, StatusDraft, StatusPaused, StatusClosed:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

func CloneAll(jobs []Job) []Job {
	if jobs == nil {
		return nil
	}
	out := make([]Job, len(jobs))
	for i := range jobs {
		out[i] = jobs[i].Clone()
	}
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return cloneStrings(s)
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
