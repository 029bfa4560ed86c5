// Package ingest coordinates fetching listings from the vacancy source,
// discovering employers the store does not know yet, and bulk-inserting
// vacancies for every persisted employer.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/hh-collector/internal/headhunter"
	"github.com/spigell/hh-collector/internal/store"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"
)

// Gateway is the subset of the persistence layer the orchestrator needs.
type Gateway interface {
	EmployerExists(ctx context.Context, id int64) (bool, error)
	InsertEmployer(ctx context.Context, name string, id int64) (int64, error)
	InsertVacancy(ctx context.Context, rec *store.VacancyRecord) error
	ListEmployers(ctx context.Context) ([]store.Employer, error)
}

// Source fetches raw listings from the vacancy API.
type Source interface {
	FetchRandom(count int) *headhunter.Vacancies
	FetchByEmployer(employerID int64) *headhunter.Vacancies
}

type Ingester struct {
	source Source
	store  Gateway
	logger *zap.Logger

	// prompt is swappable in tests; the default runs a promptui prompt.
	prompt func(label string, validate promptui.ValidateFunc) (string, error)
}

func New(source Source, gateway Gateway, logger *zap.Logger) *Ingester {
	return &Ingester{
		source: source,
		store:  gateway,
		logger: logger,
		prompt: runPrompt,
	}
}

func runPrompt(label string, validate promptui.ValidateFunc) (string, error) {
	p := promptui.Prompt{
		Label:    label,
		Validate: validate,
	}

	return p.Run()
}

// Candidate is an employer seen in a listing but not yet persisted.
type Candidate struct {
	ID   int64
	Name string
}

type Candidates struct {
	Items []*Candidate
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

// RemoveByIndex removes a candidate. Order is preserved: the displayed
// numbering must stay stable across selection rounds.
func (c *Candidates) RemoveByIndex(idx int) {
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
}

// DiscoverNewEmployers extracts the employers appearing in the listings that
// are not persisted yet, in first-occurrence order. Listings without a
// usable employer identity are dropped, as are repeats; each remaining
// candidate costs one existence check against the store.
func (i *Ingester) DiscoverNewEmployers(ctx context.Context, vacancies *headhunter.Vacancies) (*Candidates, error) {
	initial := vacancies.Len()
	dropped := 0

	seen := make(map[int64]bool)
	candidates := &Candidates{}

	for _, vacancy := range vacancies.Items {
		if vacancy.Employer == nil || vacancy.Employer.ID == "" || vacancy.Employer.Name == "" {
			dropped++
			continue
		}

		id, err := strconv.ParseInt(vacancy.Employer.ID, 10, 64)
		if err != nil {
			i.logger.Warn("skipping employer with unparsable ID",
				zap.String("employer_id", vacancy.Employer.ID),
				zap.String("employer_name", vacancy.Employer.Name),
			)
			dropped++
			continue
		}

		if seen[id] {
			continue
		}
		seen[id] = true

		exists, err := i.store.EmployerExists(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("checking employer %d: %w", id, err)
		}
		if exists {
			dropped++
			continue
		}

		candidates.Items = append(candidates.Items, &Candidate{ID: id, Name: vacancy.Employer.Name})
	}

	i.logger.Info("employer discovery",
		zap.Int("initial", initial),
		zap.Int("dropped", dropped),
		zap.Int("left", candidates.Len()),
	)

	return candidates, nil
}

// SelectInteractive walks the operator through the pending candidates: print
// a numbered list, read a 1-based index to persist that employer, or 0 to
// finish. Invalid input re-prompts without touching state. The loop ends
// when the pending set is empty or the operator bails out.
func (i *Ingester) SelectInteractive(ctx context.Context, candidates *Candidates) error {
	for candidates.Len() > 0 {
		for idx, candidate := range candidates.Items {
			fmt.Printf("%d. %s (ID: %d)\n", idx+1, candidate.Name, candidate.ID)
		}
		fmt.Println("0. Finish adding companies")

		choice, err := i.prompt("Company number to add (0 to finish)", validateIndex(candidates.Len()))
		if err != nil {
			return fmt.Errorf("employer selection prompt: %w", err)
		}

		n, err := strconv.Atoi(strings.TrimSpace(choice))
		if err != nil {
			// The validator already rejected this; ask again.
			continue
		}

		if n == 0 {
			i.logger.Info("finished adding companies", zap.String("reason", "requested by operator"))
			return nil
		}

		candidate := candidates.Items[n-1]
		if _, err := i.store.InsertEmployer(ctx, candidate.Name, candidate.ID); err != nil {
			i.logger.Warn("adding company failed",
				zap.String("name", candidate.Name),
				zap.Int64("employer_id", candidate.ID),
				zap.Error(err),
			)
		} else {
			fmt.Printf("Company %s added.\n", candidate.Name)
		}

		// Attempted candidates leave the pending set either way.
		candidates.RemoveByIndex(n - 1)
	}

	fmt.Println("All available companies added.")
	return nil
}

func validateIndex(max int) promptui.ValidateFunc {
	return func(input string) error {
		n, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			return errors.New("enter a number")
		}
		if n < 0 || n > max {
			return fmt.Errorf("enter a number between 0 and %d", max)
		}
		return nil
	}
}

// IngestAllKnownEmployers fetches and persists vacancies for every employer
// already in the store. Failures on single records are logged and skipped;
// the batch keeps going and is not atomic.
func (i *Ingester) IngestAllKnownEmployers(ctx context.Context) error {
	employers, err := i.store.ListEmployers(ctx)
	if err != nil {
		return fmt.Errorf("listing employers: %w", err)
	}

	for _, employer := range employers {
		i.logger.Info("fetching vacancies for company",
			zap.String("name", employer.Name),
			zap.Int64("employer_id", employer.ID),
		)

		vacancies := i.source.FetchByEmployer(employer.ID)

		inserted := 0
		for _, vacancy := range vacancies.Items {
			record, err := Extract(vacancy)
			if err != nil {
				i.logger.Warn("skipping vacancy", zap.Error(err))
				continue
			}

			if err := i.store.InsertVacancy(ctx, record); err != nil {
				i.logger.Warn("inserting vacancy failed",
					zap.String("name", record.Name),
					zap.Int64("employer_id", record.EmployerID),
					zap.Error(err),
				)
				continue
			}
			inserted++
		}

		i.logger.Info("ingested vacancies for company",
			zap.String("name", employer.Name),
			zap.Int("fetched", vacancies.Len()),
			zap.Int("inserted", inserted),
		)
	}

	return nil
}
