package ingest

import (
	"fmt"
	"strconv"

	"github.com/spigell/hh-collector/internal/currency"
	"github.com/spigell/hh-collector/internal/headhunter"
	"github.com/spigell/hh-collector/internal/store"
)

// NotSpecified is substituted for optional listing fields that are absent.
const NotSpecified = "not specified"

// Extract projects one raw listing into an insertable record. A record
// without a resolvable employer ID is rejected whole: persistence requires
// the employer reference and nothing is inserted partially.
func Extract(raw *headhunter.Vacancy) (*store.VacancyRecord, error) {
	if raw == nil {
		return nil, fmt.Errorf("empty vacancy record")
	}

	employerID, err := extractEmployerID(raw)
	if err != nil {
		return nil, err
	}

	name := raw.Name
	if name == "" {
		name = NotSpecified
	}

	// Both bounds stay nil when the salary object is missing; otherwise each
	// is converted on its own since either may be absent.
	var salaryFrom, salaryTo *float64
	if raw.Salary != nil {
		salaryFrom = currency.Convert(raw.Salary.From, raw.Salary.Currency)
		salaryTo = currency.Convert(raw.Salary.To, raw.Salary.Currency)
	}

	requirement := NotSpecified
	if raw.Snippet != nil && raw.Snippet.Requirement != "" {
		requirement = raw.Snippet.Requirement
	}

	location := NotSpecified
	if raw.Area != nil && raw.Area.Name != "" {
		location = raw.Area.Name
	}

	return &store.VacancyRecord{
		Name:        name,
		SalaryFrom:  salaryFrom,
		SalaryTo:    salaryTo,
		EmployerID:  employerID,
		Requirement: requirement,
		Location:    location,
	}, nil
}

func extractEmployerID(raw *headhunter.Vacancy) (int64, error) {
	if raw.Employer == nil || raw.Employer.ID == "" {
		return 0, fmt.Errorf("vacancy %q has no employer ID", raw.Name)
	}

	id, err := strconv.ParseInt(raw.Employer.ID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("vacancy %q has unparsable employer ID %q", raw.Name, raw.Employer.ID)
	}

	return id, nil
}
