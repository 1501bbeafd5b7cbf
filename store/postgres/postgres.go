// Package postgres provides a pgx-backed payroll store with the same schema
// and semantics as store/sqlite.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/warp/payroll-engine/award"
	"github.com/warp/payroll-engine/store"
)

// Store implements store.Store on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// New connects to url and migrates the schema.
func New(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS organizations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id),
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL,
		pay_rate TEXT,
		employment_type TEXT NOT NULL DEFAULT '',
		no_tax_free_threshold BOOLEAN NOT NULL DEFAULT false,
		active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_employees_org ON employees(organization_id, active);

	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id),
		employee_email TEXT NOT NULL,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ NOT NULL,
		break_minutes INTEGER NOT NULL DEFAULT 0,
		is_public_holiday BOOLEAN NOT NULL DEFAULT false,
		active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_shifts_org_start ON shifts(organization_id, start_time);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// =============================================================================
// PROVIDERS
// =============================================================================

func (s *Store) ActiveEmployees(ctx context.Context, orgID award.OrganizationID) ([]award.EmployeeRecord, error) {
	emps, err := s.queryEmployees(ctx, employeeSelect+" WHERE organization_id = $1 AND active ORDER BY id", string(orgID))
	if err != nil {
		return nil, err
	}
	records := make([]award.EmployeeRecord, 0, len(emps))
	for _, e := range emps {
		records = append(records, e.Record())
	}
	return records, nil
}

func (s *Store) WorkedShifts(ctx context.Context, orgID award.OrganizationID, from, to time.Time) ([]award.ShiftRecord, error) {
	start, end := store.DayRange(from, to)
	rows, err := s.pool.Query(ctx, `
		SELECT id, organization_id, employee_email, start_time, end_time,
			break_minutes, is_public_holiday, active, created_at
		FROM shifts
		WHERE organization_id = $1 AND active AND start_time >= $2 AND start_time < $3
		ORDER BY start_time, id`,
		string(orgID), start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []award.ShiftRecord
	for rows.Next() {
		var sh store.Shift
		if err := rows.Scan(&sh.ID, &sh.OrganizationID, &sh.EmployeeEmail, &sh.StartTime, &sh.EndTime,
			&sh.BreakMinutes, &sh.IsPublicHoliday, &sh.Active, &sh.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, sh.Record())
	}
	return records, rows.Err()
}

// =============================================================================
// ORGANIZATIONS, EMPLOYEES, SHIFTS
// =============================================================================

func (s *Store) SaveOrganization(ctx context.Context, org store.Organization) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO organizations (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET
			name = CASE WHEN excluded.name = '' THEN organizations.name ELSE excluded.name END`,
		org.ID, org.Name)
	return err
}

func (s *Store) GetOrganization(ctx context.Context, id string) (*store.Organization, error) {
	var org store.Organization
	err := s.pool.QueryRow(ctx, "SELECT id, name, created_at FROM organizations WHERE id = $1", id).
		Scan(&org.ID, &org.Name, &org.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

const employeeSelect = `
	SELECT id, organization_id, first_name, last_name, email, COALESCE(pay_rate, ''),
		employment_type, no_tax_free_threshold, active, created_at
	FROM employees`

func (s *Store) SaveEmployee(ctx context.Context, emp store.Employee) (store.Employee, error) {
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	var payRate *string
	if emp.PayRate != "" {
		payRate = &emp.PayRate
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO employees (id, organization_id, first_name, last_name, email, pay_rate,
			employment_type, no_tax_free_threshold, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			email = excluded.email,
			pay_rate = excluded.pay_rate,
			employment_type = excluded.employment_type,
			no_tax_free_threshold = excluded.no_tax_free_threshold,
			active = excluded.active
		RETURNING created_at`,
		emp.ID, emp.OrganizationID, emp.FirstName, emp.LastName, emp.Email, payRate,
		emp.EmploymentType, emp.NoTaxFreeThreshold, emp.Active,
	).Scan(&emp.CreatedAt)
	if err != nil {
		return store.Employee{}, fmt.Errorf("save employee %s: %w", emp.ID, err)
	}
	return emp, nil
}

func (s *Store) ListEmployees(ctx context.Context, orgID string) ([]store.Employee, error) {
	return s.queryEmployees(ctx, employeeSelect+" WHERE organization_id = $1 ORDER BY last_name, first_name, id", orgID)
}

func (s *Store) queryEmployees(ctx context.Context, query string, args ...any) ([]store.Employee, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []store.Employee
	for rows.Next() {
		var emp store.Employee
		if err := rows.Scan(&emp.ID, &emp.OrganizationID, &emp.FirstName, &emp.LastName, &emp.Email,
			&emp.PayRate, &emp.EmploymentType, &emp.NoTaxFreeThreshold, &emp.Active, &emp.CreatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (s *Store) SaveShift(ctx context.Context, sh store.Shift) (store.Shift, error) {
	if sh.ID == "" {
		sh.ID = uuid.NewString()
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO shifts (id, organization_id, employee_email, start_time, end_time,
			break_minutes, is_public_holiday, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			employee_email = excluded.employee_email,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			break_minutes = excluded.break_minutes,
			is_public_holiday = excluded.is_public_holiday,
			active = excluded.active
		RETURNING created_at`,
		sh.ID, sh.OrganizationID, strings.TrimSpace(sh.EmployeeEmail), sh.StartTime, sh.EndTime,
		sh.BreakMinutes, sh.IsPublicHoliday, sh.Active,
	).Scan(&sh.CreatedAt)
	if err != nil {
		return store.Shift{}, fmt.Errorf("save shift %s: %w", sh.ID, err)
	}
	return sh, nil
}

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "TRUNCATE shifts, employees, organizations")
	return err
}
