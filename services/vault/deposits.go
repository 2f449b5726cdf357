package vault

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// Deposit is an issue request the vault has accepted.
type Deposit struct {
	RequestID string    `json:"request_id"`
	Vault     string    `json:"vault"`
	Requester string    `json:"requester"`
	SecureID  string    `json:"secure_id"`
	Address   string    `json:"address"`
	Format    string    `json:"format"`
	Network   string    `json:"network"`
	Amount    uint64    `json:"amount"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

// Registry is the in-memory read model of accepted deposits
type Registry struct {
	deposits map[string]Deposit
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		deposits: make(map[string]Deposit),
	}
}

// Record stores a deposit, replacing any previous one with the same id
func (r *Registry) Record(d Deposit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deposits[d.RequestID] = d
}

// Get returns a specific deposit
func (r *Registry) Get(requestID string) (Deposit, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.deposits[requestID]
	return d, ok
}

// List returns all deposits sorted by request id
func (r *Registry) List() []Deposit {
	r.mu.RLock()
	defer r.mu.RUnlock()

	deposits := make([]Deposit, 0, len(r.deposits))
	for _, d := range r.deposits {
		deposits = append(deposits, d)
	}
	slices.SortFunc(deposits, func(a, b Deposit) int {
		return strings.Compare(a.RequestID, b.RequestID)
	})
	return deposits
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.deposits)
}
