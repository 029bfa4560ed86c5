// Package store owns the relational schema holding employers and their
// vacancies and answers the analytic queries over it. Every operation
// acquires a connection from the pool, runs, and releases it on all exit
// paths: no transaction spans more than one call.
package store

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Sentinel errors surfaced on constraint violations, so callers running a
// batch can log, skip and continue without inspecting driver internals.
var (
	ErrDuplicateEmployer = errors.New("employer already exists")
	ErrEmployerNotFound  = errors.New("employer does not exist")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Config holds connection parameters and the target database/schema names.
type Config struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	PasswordFile string `mapstructure:"password-file"`
	// MaintenanceDB is the database used for the CREATE DATABASE statement.
	MaintenanceDB string `mapstructure:"maintenance-db"`
	Name          string `mapstructure:"name"`
	Schema        string `mapstructure:"schema"`
}

type Store struct {
	pool   *pgxpool.Pool
	schema string
	logger *zap.Logger
}

type Employer struct {
	ID   int64
	Name string
}

// VacancyRecord is the normalized insertion payload produced by extraction.
type VacancyRecord struct {
	Name        string
	SalaryFrom  *float64
	SalaryTo    *float64
	EmployerID  int64
	Requirement string
	Location    string
}

type VacancyListing struct {
	Name       string
	Employer   string
	SalaryFrom *float64
	SalaryTo   *float64
}

type EmployerVacancyCount struct {
	Name  string
	Count int64
}

type SalaryListing struct {
	Name       string
	SalaryFrom *float64
	SalaryTo   *float64
}

// Database and schema names are operator-supplied and cannot be bound as
// statement parameters, so they are restricted to an allow-list pattern and
// additionally quoted through pgx before being spliced into SQL.
var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)

func validIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}

// table returns the schema-qualified, quoted table name.
func (s *Store) table(name string) string {
	return pgx.Identifier{s.schema, name}.Sanitize()
}

func (c *Config) url(dbname string) string {
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	port := c.Port
	if port == 0 {
		port = 5432
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", host, port),
		Path:   dbname,
	}

	return u.String()
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
