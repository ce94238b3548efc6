package risk

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// artifactFile is the on-disk form of a trained artifact. Exactly one of the
// model fields is populated, matching ModelName.
type artifactFile struct {
	BidType    string            `json:"bid_type"`
	ModelName  string            `json:"model"`
	HeldOutMSE float64           `json:"held_out_mse"`
	TrainedAt  time.Time         `json:"trained_at"`
	Scaler     *Scaler           `json:"scaler"`
	Linear     *LinearRegression `json:"linear,omitempty"`
	Forest     *RandomForest     `json:"random_forest,omitempty"`
	Boosting   *GradientBoosting `json:"gradient_boosting,omitempty"`
}

// ArtifactStore persists trained (model, scaler) pairs as JSON files under a
// data directory, one file per bid category. A missing file is "absent", not
// an error.
type ArtifactStore struct {
	dataDir string
}

// NewArtifactStore creates a store rooted at dataDir.
func NewArtifactStore(dataDir string) *ArtifactStore {
	return &ArtifactStore{dataDir: dataDir}
}

func (s *ArtifactStore) path(bt BidType) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("risk_model_%s.json", strings.ToLower(string(bt))))
}

// Save writes the artifact for its category, replacing any previous file.
func (s *ArtifactStore) Save(a *Artifact) error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}

	file := artifactFile{
		BidType:    string(a.BidType),
		ModelName:  a.ModelName,
		HeldOutMSE: a.HeldOutMSE,
		TrainedAt:  a.TrainedAt,
		Scaler:     a.Scaler,
	}
	switch m := a.Model.(type) {
	case *LinearRegression:
		file.Linear = m
	case *RandomForest:
		file.Forest = m
	case *GradientBoosting:
		file.Boosting = m
	default:
		return fmt.Errorf("save artifact: unknown model type %q", a.ModelName)
	}

	f, err := os.Create(s.path(a.BidType))
	if err != nil {
		return fmt.Errorf("create artifact file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&file); err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	return nil
}

// Load reads a category's artifact. A missing file returns (nil, nil).
func (s *ArtifactStore) Load(bt BidType) (*Artifact, error) {
	f, err := os.Open(s.path(bt))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open artifact file: %w", err)
	}
	defer f.Close()

	var file artifactFile
	if err := json.NewDecoder(f).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}

	var model Regressor
	switch {
	case file.Linear != nil:
		model = file.Linear
	case file.Forest != nil:
		model = file.Forest
	case file.Boosting != nil:
		model = file.Boosting
	default:
		return nil, fmt.Errorf("artifact for %s has no model payload", bt)
	}
	if file.Scaler == nil {
		return nil, fmt.Errorf("artifact for %s has no scaler", bt)
	}

	return &Artifact{
		BidType:    bt,
		ModelName:  file.ModelName,
		Model:      model,
		Scaler:     file.Scaler,
		HeldOutMSE: file.HeldOutMSE,
		TrainedAt:  file.TrainedAt,
	}, nil
}

// LoadAll restores every persisted category into the registry. Corrupt or
// missing categories are logged and left absent.
func (s *ArtifactStore) LoadAll(registry *Registry) {
	for _, bt := range AllBidTypes() {
		artifact, err := s.Load(bt)
		if err != nil {
			slog.Warn("could not load persisted model", "bid_type", bt, "error", err)
			continue
		}
		if artifact == nil {
			slog.Info("no persisted model for category", "bid_type", bt)
			continue
		}
		registry.Set(artifact)
		slog.Info("loaded persisted model", "bid_type", bt, "model", artifact.ModelName)
	}
}
