package services

import (
	"context"
	"sync"
	"time"

	"office-backend/internal/models"
)

// In-memory stores mirroring the atomicity contract of the SQL layer: the
// reserve is a conditional decrement under one lock, duplicates are rejected
// by a (distribution, employee) key, and deleting a distribution removes its
// claims in the same critical section.

type memStore struct {
	mu            sync.Mutex
	nextDistID    int
	nextClaimID   int
	distributions map[int]*models.Distribution
	claims        map[int]*models.ClaimRecord
	claimKeys     map[[2]int]int // (distID, empID) -> claimID
}

func newMemStore() *memStore {
	return &memStore{
		nextDistID:    1,
		nextClaimID:   1,
		distributions: make(map[int]*models.Distribution),
		claims:        make(map[int]*models.ClaimRecord),
		claimKeys:     make(map[[2]int]int),
	}
}

type memDistStore struct{ s *memStore }
type memClaimStore struct{ s *memStore }

func (m *memDistStore) Create(ctx context.Context, dist *models.Distribution) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	dist.ID = m.s.nextDistID
	m.s.nextDistID++
	dist.ClaimedCount = 0
	dist.RemainingCount = dist.TotalQuantity
	dist.CreatedAt = time.Now()
	cp := *dist
	m.s.distributions[dist.ID] = &cp
	return nil
}

func (m *memDistStore) Get(ctx context.Context, id int) (*models.Distribution, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	dist, ok := m.s.distributions[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *dist
	return &cp, nil
}

func (m *memDistStore) List(ctx context.Context, officeID int) ([]*models.Distribution, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*models.Distribution
	for _, dist := range m.s.distributions {
		if officeID == 0 || dist.OfficeID == officeID {
			cp := *dist
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memDistStore) FindByTypeDateOffice(ctx context.Context, goodiesType string, date time.Time, officeID int) (*models.Distribution, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, dist := range m.s.distributions {
		if dist.GoodiesType == goodiesType && dist.OfficeID == officeID && dist.DistributionDate.Equal(date) {
			cp := *dist
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memDistStore) Delete(ctx context.Context, id int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.distributions[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.s.distributions, id)
	for claimID, claim := range m.s.claims {
		if claim.DistributionID == id {
			delete(m.s.claims, claimID)
			delete(m.s.claimKeys, [2]int{claim.DistributionID, claim.EmployeeID})
		}
	}
	return nil
}

func (m *memClaimStore) Create(ctx context.Context, claim *models.ClaimRecord) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	dist, ok := m.s.distributions[claim.DistributionID]
	if !ok {
		return models.ErrNotFound
	}
	if dist.RemainingCount <= 0 {
		return models.ErrOutOfStock
	}
	key := [2]int{claim.DistributionID, claim.EmployeeID}
	if _, dup := m.s.claimKeys[key]; dup {
		return models.ErrAlreadyClaimed
	}

	dist.ClaimedCount++
	dist.RemainingCount--

	claim.ID = m.s.nextClaimID
	m.s.nextClaimID++
	claim.ReceivedAt = time.Now()
	cp := *claim
	m.s.claims[claim.ID] = &cp
	m.s.claimKeys[key] = claim.ID
	return nil
}

func (m *memClaimStore) Delete(ctx context.Context, claimID int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	claim, ok := m.s.claims[claimID]
	if !ok {
		return models.ErrNotFound
	}
	dist, ok := m.s.distributions[claim.DistributionID]
	if !ok {
		return models.ErrNotFound
	}
	if dist.RemainingCount >= dist.TotalQuantity {
		return models.ErrInvariant
	}

	dist.ClaimedCount--
	dist.RemainingCount++
	delete(m.s.claims, claimID)
	delete(m.s.claimKeys, [2]int{claim.DistributionID, claim.EmployeeID})
	return nil
}

func (m *memClaimStore) Get(ctx context.Context, id int) (*models.ClaimRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	claim, ok := m.s.claims[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *claim
	return &cp, nil
}

func (m *memClaimStore) ListByDistribution(ctx context.Context, distributionID int) ([]*models.ClaimRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*models.ClaimRecord
	for id := 1; id < m.s.nextClaimID; id++ {
		if claim, ok := m.s.claims[id]; ok && claim.DistributionID == distributionID {
			cp := *claim
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memClaimStore) Exists(ctx context.Context, distributionID, employeeID int) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_, ok := m.s.claimKeys[[2]int{distributionID, employeeID}]
	return ok, nil
}

// memDirectory is a fixed roster keyed by employee id
type memDirectory struct {
	employees map[int]*models.Employee
}

func newMemDirectory(employees ...*models.Employee) *memDirectory {
	d := &memDirectory{employees: make(map[int]*models.Employee)}
	for _, emp := range employees {
		d.employees[emp.ID] = emp
	}
	return d
}

func (d *memDirectory) Get(ctx context.Context, id int) (*models.Employee, error) {
	emp, ok := d.employees[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return emp, nil
}

func (d *memDirectory) ListEligibleByOffice(ctx context.Context, officeID int) ([]*models.Employee, error) {
	var out []*models.Employee
	for id := 1; id <= len(d.employees)+100; id++ {
		emp, ok := d.employees[id]
		if !ok {
			continue
		}
		if emp.OfficeID == officeID && emp.IsActive && models.ClaimEligibleRole(emp.Role) {
			out = append(out, emp)
		}
	}
	return out, nil
}

type memOffices struct {
	offices map[int]*models.Office
}

func newMemOffices(ids ...int) *memOffices {
	o := &memOffices{offices: make(map[int]*models.Office)}
	for _, id := range ids {
		o.offices[id] = &models.Office{ID: id, Name: "Office"}
	}
	return o
}

func (o *memOffices) Get(ctx context.Context, id int) (*models.Office, error) {
	office, ok := o.offices[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return office, nil
}

func (o *memOffices) Exists(ctx context.Context, id int) (bool, error) {
	_, ok := o.offices[id]
	return ok, nil
}

// employee builds a test employee with sane defaults
func employee(id, officeID int, role string) *models.Employee {
	return &models.Employee{
		ID:       id,
		Name:     "Employee",
		Role:     role,
		OfficeID: officeID,
		IsActive: true,
	}
}
