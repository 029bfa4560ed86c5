package store

import (
	"context"
	"fmt"
)

// EmployerExists reports whether an employer with the given source ID is
// already persisted.
func (s *Store) EmployerExists(ctx context.Context, id int64) (bool, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Release()

	var exists bool
	if err := conn.QueryRow(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE "COMPANY_ID" = $1)`, s.table("COMPANY")), id,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("employer existence query: %w", err)
	}

	return exists, nil
}

// InsertEmployer persists an employer under its caller-supplied source ID
// and returns the stored ID. A duplicate ID yields ErrDuplicateEmployer.
func (s *Store) InsertEmployer(ctx context.Context, name string, id int64) (int64, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	var stored int64
	if err := conn.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %s ("NAME", "COMPANY_ID") VALUES ($1, $2) RETURNING "COMPANY_ID"`, s.table("COMPANY")),
		name, id,
	).Scan(&stored); err != nil {
		if isPgError(err, uniqueViolation) {
			return 0, fmt.Errorf("%w: %d", ErrDuplicateEmployer, id)
		}
		return 0, fmt.Errorf("inserting employer %q: %w", name, err)
	}

	return stored, nil
}

// InsertVacancy persists one vacancy row inside its own transaction. An
// unresolvable employer reference yields ErrEmployerNotFound and nothing is
// left behind.
func (s *Store) InsertVacancy(ctx context.Context, rec *VacancyRecord) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}
	// No-op once committed.
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s ("NAME", "SALARY_FROM", "SALARY_TO", "COMPANY_ID", "REQUIREMENT", "LOCATION")
			VALUES ($1, $2, $3, $4, $5, $6)`, s.table("VACANCY")),
		rec.Name, rec.SalaryFrom, rec.SalaryTo, rec.EmployerID, rec.Requirement, rec.Location,
	); err != nil {
		if isPgError(err, foreignKeyViolation) {
			return fmt.Errorf("%w: %d", ErrEmployerNotFound, rec.EmployerID)
		}
		return fmt.Errorf("inserting vacancy %q: %w", rec.Name, err)
	}

	return tx.Commit(ctx)
}

// ListEmployers returns all persisted employers ordered by ID.
func (s *Store) ListEmployers(ctx context.Context) ([]Employer, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx,
		fmt.Sprintf(`SELECT "COMPANY_ID", "NAME" FROM %s ORDER BY "COMPANY_ID"`, s.table("COMPANY")),
	)
	if err != nil {
		return nil, fmt.Errorf("listing employers: %w", err)
	}
	defer rows.Close()

	employers := make([]Employer, 0)
	for rows.Next() {
		var e Employer
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("scanning employer: %w", err)
		}
		employers = append(employers, e)
	}

	return employers, rows.Err()
}

// CountVacanciesPerEmployer returns every employer with its vacancy count.
// The join is an outer one: employers without vacancies show up with zero.
func (s *Store) CountVacanciesPerEmployer(ctx context.Context) ([]EmployerVacancyCount, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, fmt.Sprintf(`
		SELECT C."NAME", COUNT(V."VACANCY_ID")
		FROM %s C
		LEFT JOIN %s V ON C."COMPANY_ID" = V."COMPANY_ID"
		GROUP BY C."COMPANY_ID", C."NAME"
		ORDER BY C."COMPANY_ID"`, s.table("COMPANY"), s.table("VACANCY")),
	)
	if err != nil {
		return nil, fmt.Errorf("counting vacancies per employer: %w", err)
	}
	defer rows.Close()

	counts := make([]EmployerVacancyCount, 0)
	for rows.Next() {
		var c EmployerVacancyCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning employer count: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// ListAllVacancies returns every vacancy joined with its employer name.
// The join is an inner one: orphaned vacancies are silently excluded.
func (s *Store) ListAllVacancies(ctx context.Context) ([]VacancyListing, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, fmt.Sprintf(`
		SELECT V."NAME", C."NAME", V."SALARY_FROM", V."SALARY_TO"
		FROM %s V
		JOIN %s C ON V."COMPANY_ID" = C."COMPANY_ID"
		ORDER BY V."VACANCY_ID"`, s.table("VACANCY"), s.table("COMPANY")),
	)
	if err != nil {
		return nil, fmt.Errorf("listing vacancies: %w", err)
	}
	defer rows.Close()

	listings := make([]VacancyListing, 0)
	for rows.Next() {
		var l VacancyListing
		if err := rows.Scan(&l.Name, &l.Employer, &l.SalaryFrom, &l.SalaryTo); err != nil {
			return nil, fmt.Errorf("scanning vacancy listing: %w", err)
		}
		listings = append(listings, l)
	}

	return listings, rows.Err()
}

// AverageSalary returns the mean of (from+to)/2 over vacancies where both
// bounds are set. Vacancies with a single bound are excluded, not imputed.
// The result is nil when no vacancy qualifies.
func (s *Store) AverageSalary(ctx context.Context) (*float64, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var avg *float64
	if err := conn.QueryRow(ctx, fmt.Sprintf(`
		SELECT AVG(("SALARY_FROM" + "SALARY_TO") / 2)
		FROM %s
		WHERE "SALARY_FROM" IS NOT NULL AND "SALARY_TO" IS NOT NULL`, s.table("VACANCY")),
	).Scan(&avg); err != nil {
		return nil, fmt.Errorf("averaging salaries: %w", err)
	}

	return avg, nil
}

// VacanciesAboveAverage returns vacancies where either salary bound exceeds
// the average. Either bound qualifies on its own; this is deliberately an
// OR. Empty when no average exists.
func (s *Store) VacanciesAboveAverage(ctx context.Context) ([]SalaryListing, error) {
	avg, err := s.AverageSalary(ctx)
	if err != nil {
		return nil, err
	}
	if avg == nil {
		return []SalaryListing{}, nil
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, fmt.Sprintf(`
		SELECT "NAME", "SALARY_FROM", "SALARY_TO"
		FROM %s
		WHERE "SALARY_FROM" > $1 OR "SALARY_TO" > $1
		ORDER BY "VACANCY_ID"`, s.table("VACANCY")),
		*avg,
	)
	if err != nil {
		return nil, fmt.Errorf("listing above-average vacancies: %w", err)
	}
	defer rows.Close()

	listings := make([]SalaryListing, 0)
	for rows.Next() {
		var l SalaryListing
		if err := rows.Scan(&l.Name, &l.SalaryFrom, &l.SalaryTo); err != nil {
			return nil, fmt.Errorf("scanning salary listing: %w", err)
		}
		listings = append(listings, l)
	}

	return listings, rows.Err()
}

// VacanciesMatchingKeyword returns the names of vacancies whose name
// contains the keyword, case-insensitively. Requirement and location are
// not searched.
func (s *Store) VacanciesMatchingKeyword(ctx context.Context, keyword string) ([]string, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx,
		fmt.Sprintf(`SELECT "NAME" FROM %s WHERE "NAME" ILIKE $1 ORDER BY "VACANCY_ID"`, s.table("VACANCY")),
		"%"+keyword+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("searching vacancies by keyword: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning vacancy name: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// ClearEmployers truncates the employer table together with the dependent
// vacancy rows.
func (s *Store) ClearEmployers(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx,
		fmt.Sprintf(`TRUNCATE %s CASCADE`, s.table("COMPANY")),
	); err != nil {
		return fmt.Errorf("clearing employers: %w", err)
	}

	return nil
}
