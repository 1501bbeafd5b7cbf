/*
Package sqlite provides a SQLite-backed payroll store.

PURPOSE:
  Implements store.Store (and through it award.EmployeeProvider and
  award.ShiftProvider) using SQLite. The postgres package mirrors the same
  schema for production.

KEY TABLES:
  organizations: Tenants owning employees and shifts
  employees:     Pay rate (text), employment type, active flag
  shifts:        Worked shifts keyed by employee email

TIME STORAGE:
  Shift times are stored twice: RFC3339 text with the original offset, and
  unix seconds for range queries. Reading back restores the original offset.

INDEXES:
  - idx_employees_org: Active employee lookup
  - idx_shifts_org_start: Worked shift range lookup (hot path)

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. Postgres relies on the database.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := award.NewEngine(store, store, schads.Award(), award.Config{}, logger)

MIGRATION:
  Schema is auto-migrated on New().
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/payroll-engine/award"
	"github.com/warp/payroll-engine/store"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ store.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// each :memory: connection is its own database
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS organizations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id),
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL,
		pay_rate TEXT,
		employment_type TEXT NOT NULL DEFAULT '',
		no_tax_free_threshold INTEGER NOT NULL DEFAULT 0,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_org
		ON employees(organization_id, active);

	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id),
		employee_email TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		start_unix INTEGER NOT NULL,
		break_minutes INTEGER NOT NULL DEFAULT 0,
		is_public_holiday INTEGER NOT NULL DEFAULT 0,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_org_start
		ON shifts(organization_id, start_unix);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PROVIDERS (award.EmployeeProvider, award.ShiftProvider)
// =============================================================================

// ActiveEmployees returns the organization's active employees.
func (s *Store) ActiveEmployees(ctx context.Context, orgID award.OrganizationID) ([]award.EmployeeRecord, error) {
	emps, err := s.queryEmployees(ctx, employeeSelect+" WHERE organization_id = ? AND active = 1 ORDER BY id", string(orgID))
	if err != nil {
		return nil, err
	}
	records := make([]award.EmployeeRecord, 0, len(emps))
	for _, e := range emps {
		records = append(records, e.Record())
	}
	return records, nil
}

// WorkedShifts returns active shifts starting on a day in [from, to].
func (s *Store) WorkedShifts(ctx context.Context, orgID award.OrganizationID, from, to time.Time) ([]award.ShiftRecord, error) {
	start, end := store.DayRange(from, to)
	shifts, err := s.queryShifts(ctx, shiftSelect+`
		WHERE organization_id = ? AND active = 1 AND start_unix >= ? AND start_unix < ?
		ORDER BY start_unix, id`,
		string(orgID), start.Unix(), end.Unix(),
	)
	if err != nil {
		return nil, err
	}
	records := make([]award.ShiftRecord, 0, len(shifts))
	for _, sh := range shifts {
		records = append(records, sh.Record())
	}
	return records, nil
}

// =============================================================================
// ORGANIZATIONS
// =============================================================================

// SaveOrganization creates or renames an organization.
func (s *Store) SaveOrganization(ctx context.Context, org store.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO organizations (id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = CASE WHEN excluded.name = '' THEN organizations.name ELSE excluded.name END
	`
	_, err := s.db.ExecContext(ctx, query, org.ID, org.Name, time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetOrganization returns nil when the organization does not exist.
func (s *Store) GetOrganization(ctx context.Context, id string) (*store.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var org store.Organization
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM organizations WHERE id = ?", id,
	).Scan(&org.ID, &org.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	org.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &org, nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

const employeeSelect = `
	SELECT id, organization_id, first_name, last_name, email, pay_rate,
		employment_type, no_tax_free_threshold, active, created_at
	FROM employees`

// SaveEmployee creates or updates an employee, assigning a UUID when ID is
// empty. The organization must exist.
func (s *Store) SaveEmployee(ctx context.Context, emp store.Employee) (store.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	if emp.CreatedAt.IsZero() {
		emp.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO employees (id, organization_id, first_name, last_name, email, pay_rate,
			employment_type, no_tax_free_threshold, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			email = excluded.email,
			pay_rate = excluded.pay_rate,
			employment_type = excluded.employment_type,
			no_tax_free_threshold = excluded.no_tax_free_threshold,
			active = excluded.active
	`
	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.OrganizationID, emp.FirstName, emp.LastName, emp.Email,
		nullString(emp.PayRate), emp.EmploymentType, emp.NoTaxFreeThreshold, emp.Active,
		emp.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return store.Employee{}, fmt.Errorf("save employee %s: %w", emp.ID, err)
	}
	return emp, nil
}

// ListEmployees returns every employee of an organization, active or not.
func (s *Store) ListEmployees(ctx context.Context, orgID string) ([]store.Employee, error) {
	return s.queryEmployees(ctx, employeeSelect+" WHERE organization_id = ? ORDER BY last_name, first_name, id", orgID)
}

func (s *Store) queryEmployees(ctx context.Context, query string, args ...any) ([]store.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []store.Employee
	for rows.Next() {
		var emp store.Employee
		var payRate sql.NullString
		var createdAt string
		if err := rows.Scan(&emp.ID, &emp.OrganizationID, &emp.FirstName, &emp.LastName, &emp.Email,
			&payRate, &emp.EmploymentType, &emp.NoTaxFreeThreshold, &emp.Active, &createdAt); err != nil {
			return nil, err
		}
		emp.PayRate = payRate.String
		emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// =============================================================================
// SHIFTS
// =============================================================================

const shiftSelect = `
	SELECT id, organization_id, employee_email, start_time, end_time,
		break_minutes, is_public_holiday, active, created_at
	FROM shifts`

// SaveShift records a shift, assigning a UUID when ID is empty.
func (s *Store) SaveShift(ctx context.Context, sh store.Shift) (store.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sh.ID == "" {
		sh.ID = uuid.NewString()
	}
	if sh.CreatedAt.IsZero() {
		sh.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO shifts (id, organization_id, employee_email, start_time, end_time, start_unix,
			break_minutes, is_public_holiday, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			employee_email = excluded.employee_email,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			start_unix = excluded.start_unix,
			break_minutes = excluded.break_minutes,
			is_public_holiday = excluded.is_public_holiday,
			active = excluded.active
	`
	_, err := s.db.ExecContext(ctx, query,
		sh.ID, sh.OrganizationID, strings.TrimSpace(sh.EmployeeEmail),
		sh.StartTime.Format(time.RFC3339), sh.EndTime.Format(time.RFC3339), sh.StartTime.Unix(),
		sh.BreakMinutes, sh.IsPublicHoliday, sh.Active,
		sh.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return store.Shift{}, fmt.Errorf("save shift %s: %w", sh.ID, err)
	}
	return sh, nil
}

func (s *Store) queryShifts(ctx context.Context, query string, args ...any) ([]store.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []store.Shift
	for rows.Next() {
		var sh store.Shift
		var start, end, createdAt string
		if err := rows.Scan(&sh.ID, &sh.OrganizationID, &sh.EmployeeEmail, &start, &end,
			&sh.BreakMinutes, &sh.IsPublicHoliday, &sh.Active, &createdAt); err != nil {
			return nil, err
		}
		// unparseable times read back as zero and classify to nothing
		sh.StartTime, _ = time.Parse(time.RFC3339, start)
		sh.EndTime, _ = time.Parse(time.RFC3339, end)
		sh.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		shifts = append(shifts, sh)
	}
	return shifts, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"shifts", "employees", "organizations"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
