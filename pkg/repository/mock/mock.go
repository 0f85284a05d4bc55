package mock

import (
	"context"
	"sort"
	"sync"

	"github.com/garnizeh/zelar/pkg/models"
)

// Test helpers and mocks. Each repo keeps rows in memory and returns Err,
// when set, from every method.
type Mocks struct {
	Users     *UserRepo
	Guardians *GuardianRepo
	Residents *ResidentRepo
	Items     *ItemRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Users:     &UserRepo{},
		Guardians: &GuardianRepo{},
		Residents: &ResidentRepo{},
		Items:     &ItemRepo{},
	}
}

type UserRepo struct {
	mu     sync.Mutex
	Stored []models.User
	Err    error
}

func (m *UserRepo) CreateUser(ctx context.Context, u models.NewUser) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	id := int64(len(m.Stored) + 1)
	m.Stored = append(m.Stored, models.User{ID: id, Name: u.Name, Email: u.Email, PasswordHash: "hashed:" + u.Password, Role: u.Role, Active: true})
	return id, nil
}

func (m *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.Stored {
		if u.Email == email && u.Active {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *UserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []models.User{}
	for i := len(m.Stored) - 1; i >= 0; i-- {
		if m.Stored[i].Active {
			out = append(out, m.Stored[i])
		}
	}
	return out, nil
}

func (m *UserRepo) UpdateUser(ctx context.Context, u *models.User, newPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Stored {
		if m.Stored[i].ID == u.ID {
			m.Stored[i].Name, m.Stored[i].Email, m.Stored[i].Role = u.Name, u.Email, u.Role
			if newPassword != "" {
				m.Stored[i].PasswordHash = "hashed:" + newPassword
			}
			return nil
		}
	}
	return nil
}

func (m *UserRepo) SetUserActive(ctx context.Context, id int64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Stored {
		if m.Stored[i].ID == id {
			m.Stored[i].Active = active
		}
	}
	return nil
}

type GuardianRepo struct {
	mu     sync.Mutex
	Stored []models.Guardian
	Err    error
}

func (m *GuardianRepo) CreateGuardian(ctx context.Context, g *models.Guardian) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	c := *g
	c.ID = int64(len(m.Stored) + 1)
	m.Stored = append(m.Stored, c)
	return c.ID, nil
}

func (m *GuardianRepo) ListGuardians(ctx context.Context) ([]models.Guardian, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := append([]models.Guardian{}, m.Stored...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type ResidentRepo struct {
	mu     sync.Mutex
	Stored []models.Resident
	Err    error
}

func (m *ResidentRepo) CreateResident(ctx context.Context, r *models.Resident) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	c := *r
	c.ID = int64(len(m.Stored) + 1)
	c.Active = true
	m.Stored = append(m.Stored, c)
	return c.ID, nil
}

func (m *ResidentRepo) ListResidents(ctx context.Context) ([]models.Resident, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []models.Resident{}
	for _, r := range m.Stored {
		if r.Active {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (m *ResidentRepo) GetResidentByID(ctx context.Context, id int64) (*models.Resident, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, r := range m.Stored {
		if r.ID == id && r.Active {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *ResidentRepo) UpdateResident(ctx context.Context, r *models.Resident) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Stored {
		if m.Stored[i].ID == r.ID {
			m.Stored[i] = *r
		}
	}
	return nil
}

func (m *ResidentRepo) SetResidentActive(ctx context.Context, id int64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Stored {
		if m.Stored[i].ID == id {
			m.Stored[i].Active = active
		}
	}
	return nil
}

type ItemRepo struct {
	mu     sync.Mutex
	Stored []models.Item
	Err    error
}

func (m *ItemRepo) CreateItem(ctx context.Context, it *models.Item) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	c := *it
	c.ID = int64(len(m.Stored) + 1)
	if c.Quantity == 0 {
		c.Quantity = models.DefaultQuantity
	}
	if c.Condition == "" {
		c.Condition = models.ConditionGood
	}
	m.Stored = append(m.Stored, c)
	return c.ID, nil
}

func (m *ItemRepo) ListItemsByResident(ctx context.Context, residentID int64) ([]models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []models.Item{}
	for _, it := range m.Stored {
		if it.ResidentID == residentID {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
