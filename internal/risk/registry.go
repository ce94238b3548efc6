package risk

import (
	"sync"
	"time"
)

// Artifact is one category's production model and the scaler it was fitted
// with. The pair is immutable once published and must only ever be used
// together.
type Artifact struct {
	BidType    BidType   `json:"bid_type"`
	ModelName  string    `json:"model"`
	Model      Regressor `json:"-"`
	Scaler     *Scaler   `json:"scaler"`
	HeldOutMSE float64   `json:"held_out_mse"`
	TrainedAt  time.Time `json:"trained_at"`
}

// Registry owns the per-category trained artifacts for the process. Slots
// are replaced wholesale under the writer lock, so a reader either sees the
// previous (model, scaler) pair or the new one, never a mix.
type Registry struct {
	mu    sync.RWMutex
	slots map[BidType]*Artifact
}

// NewRegistry creates an empty registry; every category starts absent.
func NewRegistry() *Registry {
	return &Registry{slots: make(map[BidType]*Artifact)}
}

// Get returns the category's artifact, or false when none is loaded.
// Absence is an expected state, not an error.
func (reg *Registry) Get(bt BidType) (*Artifact, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	a, ok := reg.slots[bt]
	return a, ok
}

// Set publishes a freshly trained artifact for its category.
func (reg *Registry) Set(a *Artifact) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.slots[a.BidType] = a
}

// ModelsLoaded reports per-category load state for the health probe, with
// every category present as a key.
func (reg *Registry) ModelsLoaded() map[string]bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	loaded := make(map[string]bool, len(strategies))
	for _, bt := range AllBidTypes() {
		_, ok := reg.slots[bt]
		loaded[string(bt)] = ok
	}
	return loaded
}
