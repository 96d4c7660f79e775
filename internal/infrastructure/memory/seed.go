package memory

import (
	"time"

	"jobboard/internal/domain/job"
)

// SeedJobs returns the canned catalog served by the mock API, stamped
// relative to start.
func SeedJobs(start time.Time) []job.Job {
	start = start.UTC()
	expires := start.Add(7 * 24 * time.Hour)
	return []job.Job{
		{
			ID:             "1",
			Title:          "Frontend Developer",
			Company:        "Tech Corp",
			CompanyID:      "tc-001",
			CompanyLogo:    "https://logo.clearbit.com/techcorp.com",
			Location:       "New York, NY",
			Remote:         true,
			Salary:         90000,
			SalaryCurrency: "USD",
			SalaryPeriod:   job.PeriodYear,
			Type:           job.TypeFullTime,
			Status:         job.StatusActive,
			PostedAt:       start,
			ExpiresAt:      &expires,
			Description:    "We are looking for a skilled frontend developer with experience in React and TypeScript to join our team.",
			Responsibilities: []string{
				"Build user interfaces with React",
				"Collaborate with backend team",
				"Maintain application performance",
			},
			Requirements: []string{
				"3+ years of React experience",
				"Proficient in TypeScript",
				"Familiar with Material UI",
			},
			Benefits:        []string{"Health insurance", "401k", "Remote work"},
			Skills:          []string{"React", "TypeScript", "Material UI"},
			ExperienceLevel: job.ExperienceMid,
			EducationLevel:  job.EducationBachelor,
			ApplicantsCount: 15,
			ViewsCount:      150,
		},
	}
}
