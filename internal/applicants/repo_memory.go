package applicants

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo. Records keep insertion order.
type MemoryRepo struct {
	mu   sync.RWMutex
	data []Applicant
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Create(ctx context.Context, a Applicant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, a)
	return nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Applicant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Applicant, len(r.data))
	copy(out, r.data)
	return out, nil
}

func (r *MemoryRepo) FindFirstByName(ctx context.Context, fullName string) (Applicant, error) {
	if err := ctx.Err(); err != nil {
		return Applicant{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.firstIndex(fullName); i >= 0 {
		return r.data[i], nil
	}
	return Applicant{}, ErrNotFound
}

func (r *MemoryRepo) ValidateFirstByName(ctx context.Context, fullName string) (Applicant, error) {
	if err := ctx.Err(); err != nil {
		return Applicant{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.firstIndex(fullName)
	if i < 0 {
		return Applicant{}, ErrNotFound
	}
	r.data[i].IsValid = true
	return r.data[i], nil
}

// firstIndex picks the earliest CreatedAt; ties go to insertion order.
func (r *MemoryRepo) firstIndex(fullName string) int {
	best := -1
	for i := range r.data {
		if r.data[i].FullName != fullName {
			continue
		}
		if best < 0 || r.data[i].CreatedAt.Before(r.data[best].CreatedAt) {
			best = i
		}
	}
	return best
}

var _ Repo = (*MemoryRepo)(nil)
