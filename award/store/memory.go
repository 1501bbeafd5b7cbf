// Package store provides in-process provider implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/payroll-engine/award"
)

// =============================================================================
// MEMORY STORE - In-memory employee and shift provider (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	employees map[award.OrganizationID][]memEmployee
	shifts    map[award.OrganizationID][]memShift
}

type memEmployee struct {
	award.EmployeeRecord
	Active bool
}

type memShift struct {
	award.ShiftRecord
	Active bool
}

func NewMemory() *Memory {
	return &Memory{
		employees: make(map[award.OrganizationID][]memEmployee),
		shifts:    make(map[award.OrganizationID][]memShift),
	}
}

// AddEmployee stores an active employee, replacing one with the same ID.
func (m *Memory) AddEmployee(orgID award.OrganizationID, rec award.EmployeeRecord) {
	m.putEmployee(orgID, memEmployee{EmployeeRecord: rec, Active: true})
}

// Deactivate hides an employee from ActiveEmployees.
func (m *Memory) Deactivate(orgID award.OrganizationID, id award.EmployeeID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.employees[orgID] {
		if m.employees[orgID][i].ID == id {
			m.employees[orgID][i].Active = false
		}
	}
}

func (m *Memory) putEmployee(orgID award.OrganizationID, e memEmployee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.employees[orgID] {
		if m.employees[orgID][i].ID == e.ID {
			m.employees[orgID][i] = e
			return
		}
	}
	m.employees[orgID] = append(m.employees[orgID], e)
}

// AddShift records an active shift, kept ordered by start time.
func (m *Memory) AddShift(orgID award.OrganizationID, rec award.ShiftRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	shifts := m.shifts[orgID]
	i := sort.Search(len(shifts), func(i int) bool {
		return shifts[i].StartTime.After(rec.StartTime)
	})
	shifts = append(shifts, memShift{})
	copy(shifts[i+1:], shifts[i:])
	shifts[i] = memShift{ShiftRecord: rec, Active: true}
	m.shifts[orgID] = shifts
}

// ActiveEmployees implements award.EmployeeProvider.
func (m *Memory) ActiveEmployees(_ context.Context, orgID award.OrganizationID) ([]award.EmployeeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []award.EmployeeRecord
	for _, e := range m.employees[orgID] {
		if e.Active {
			result = append(result, e.EmployeeRecord)
		}
	}
	return result, nil
}

// WorkedShifts implements award.ShiftProvider. to is inclusive of its whole day.
func (m *Memory) WorkedShifts(_ context.Context, orgID award.OrganizationID, from, to time.Time) ([]award.ShiftRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	end := to.AddDate(0, 0, 1)
	var result []award.ShiftRecord
	for _, s := range m.shifts[orgID] {
		if !s.Active || s.StartTime.Before(from) || !s.StartTime.Before(end) {
			continue
		}
		result = append(result, s.ShiftRecord)
	}
	return result, nil
}
