package ingest

import (
	"testing"

	"github.com/spigell/hh-collector/internal/headhunter"
)

func fptr(v float64) *float64 { return &v }

func TestExtractFullRecord(t *testing.T) {
	t.Parallel()

	raw := &headhunter.Vacancy{
		ID:   "1",
		Name: "Go Developer",
		Salary: &headhunter.Salary{
			From:     fptr(1000),
			To:       fptr(2000),
			Currency: "USD",
		},
		Employer: &headhunter.Employer{ID: "42", Name: "Acme"},
		Snippet:  &headhunter.Snippet{Requirement: "Strong Go skills"},
		Area:     &headhunter.Area{Name: "Moscow"},
	}

	rec, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Name != "Go Developer" {
		t.Fatalf("unexpected name: %q", rec.Name)
	}
	if rec.EmployerID != 42 {
		t.Fatalf("unexpected employer ID: %d", rec.EmployerID)
	}
	if rec.SalaryFrom == nil || *rec.SalaryFrom != 1000*88.45 {
		t.Fatalf("unexpected salary from: %v", rec.SalaryFrom)
	}
	if rec.SalaryTo == nil || *rec.SalaryTo != 2000*88.45 {
		t.Fatalf("unexpected salary to: %v", rec.SalaryTo)
	}
	if rec.Requirement != "Strong Go skills" {
		t.Fatalf("unexpected requirement: %q", rec.Requirement)
	}
	if rec.Location != "Moscow" {
		t.Fatalf("unexpected location: %q", rec.Location)
	}
}

func TestExtractDefaults(t *testing.T) {
	t.Parallel()

	raw := &headhunter.Vacancy{
		Employer: &headhunter.Employer{ID: "7", Name: "Globex"},
	}

	rec, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Name != NotSpecified {
		t.Fatalf("expected name sentinel, got %q", rec.Name)
	}
	if rec.SalaryFrom != nil || rec.SalaryTo != nil {
		t.Fatalf("expected nil salary bounds, got %v / %v", rec.SalaryFrom, rec.SalaryTo)
	}
	if rec.Requirement != NotSpecified {
		t.Fatalf("expected requirement sentinel, got %q", rec.Requirement)
	}
	if rec.Location != NotSpecified {
		t.Fatalf("expected location sentinel, got %q", rec.Location)
	}
}

func TestExtractSingleSalaryBound(t *testing.T) {
	t.Parallel()

	raw := &headhunter.Vacancy{
		Name:     "Analyst",
		Salary:   &headhunter.Salary{To: fptr(300), Currency: "EUR"},
		Employer: &headhunter.Employer{ID: "7", Name: "Globex"},
	}

	rec, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.SalaryFrom != nil {
		t.Fatalf("expected nil salary from, got %v", *rec.SalaryFrom)
	}
	if rec.SalaryTo == nil || *rec.SalaryTo != 300*95.17 {
		t.Fatalf("unexpected salary to: %v", rec.SalaryTo)
	}
}

func TestExtractRejectsMissingEmployer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  *headhunter.Vacancy
	}{
		{name: "nil record", raw: nil},
		{name: "no employer object", raw: &headhunter.Vacancy{Name: "Orphan"}},
		{name: "empty employer ID", raw: &headhunter.Vacancy{Name: "Orphan", Employer: &headhunter.Employer{Name: "Acme"}}},
		{name: "unparsable employer ID", raw: &headhunter.Vacancy{Name: "Orphan", Employer: &headhunter.Employer{ID: "abc", Name: "Acme"}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Extract(tt.raw); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
