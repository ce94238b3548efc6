package risk

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/trustchain/risk-service/internal/types"
)

const (
	// minTrainingRows is the smallest per-category sample worth fitting.
	minTrainingRows = 10
	// holdoutFraction of rows is reserved for candidate selection.
	holdoutFraction = 0.2
	// trainSeed fixes every random choice in a training run, making
	// repeated runs on identical data byte-for-byte reproducible.
	trainSeed = 42

	ensembleSize = 100
	boostingRate = 0.1
)

// Trainer fits candidate regressors per bid category against rule-derived
// labels, keeps the candidate with the lowest held-out error, publishes it
// to the registry and persists it through the store.
type Trainer struct {
	registry *Registry
	store    *ArtifactStore
}

// NewTrainer wires a trainer to its registry and artifact store. The store
// may be nil for in-memory training (tests).
func NewTrainer(registry *Registry, store *ArtifactStore) *Trainer {
	return &Trainer{registry: registry, store: store}
}

// candidates returns the regressors to evaluate, in selection order. Ties on
// held-out error go to the earlier candidate, so this order is part of the
// training contract.
func candidates() []Regressor {
	return []Regressor{
		NewRandomForest(ensembleSize, trainSeed),
		NewGradientBoosting(ensembleSize, boostingRate),
		&LinearRegression{},
	}
}

// TrainAll trains every trainable category from the given rows. Failures are
// isolated per category: insufficient data is logged and skipped, fit errors
// abort only the category they occurred in.
func (t *Trainer) TrainAll(rows []types.BidderRecord) {
	for _, bt := range AllBidTypes() {
		if !Trainable(bt) {
			continue
		}
		artifact, err := t.Train(rows, bt)
		switch {
		case err == nil:
			slog.Info("trained category model",
				"bid_type", bt,
				"model", artifact.ModelName,
				"held_out_mse", artifact.HeldOutMSE)
		case IsInsufficientData(err):
			slog.Info("skipping category, not enough rows", "bid_type", bt, "error", err)
		default:
			slog.Error("training failed for category", "bid_type", bt, "error", err)
		}
	}
}

// Train fits one category. The returned artifact has already been published
// to the registry and persisted when a store is configured.
func (t *Trainer) Train(rows []types.BidderRecord, bt BidType) (*Artifact, error) {
	filtered := filterByBidType(rows, bt)
	if len(filtered) < minTrainingRows {
		return nil, fmt.Errorf("%w: %s has %d rows, need %d", ErrInsufficientData, bt, len(filtered), minTrainingRows)
	}

	labels := make([]float64, len(filtered))
	for i := range filtered {
		labels[i] = LabelScore(&filtered[i], bt)
	}
	features := FeatureMatrix(filtered)

	scaler := &Scaler{}
	if err := scaler.Fit(features); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelFit, err)
	}
	scaled := scaler.TransformAll(features)

	trainX, trainY, testX, testY := split(scaled, labels)

	var best *Artifact
	for _, model := range candidates() {
		if err := model.Fit(trainX, trainY); err != nil {
			return nil, fmt.Errorf("%w: %s on %s: %v", ErrModelFit, model.Name(), bt, err)
		}
		mse := meanSquaredError(model, testX, testY)
		slog.Debug("evaluated candidate", "bid_type", bt, "model", model.Name(), "mse", mse)
		if best == nil || mse < best.HeldOutMSE {
			best = &Artifact{
				BidType:    bt,
				ModelName:  model.Name(),
				Model:      model,
				Scaler:     scaler,
				HeldOutMSE: mse,
				TrainedAt:  time.Now().UTC(),
			}
		}
	}

	t.registry.Set(best)
	if t.store != nil {
		if err := t.store.Save(best); err != nil {
			return nil, fmt.Errorf("persist artifact for %s: %w", bt, err)
		}
	}
	return best, nil
}

// IsInsufficientData reports whether err is the non-fatal skip condition.
func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func filterByBidType(rows []types.BidderRecord, bt BidType) []types.BidderRecord {
	var out []types.BidderRecord
	for _, r := range rows {
		if BidType(r.BidType) == bt {
			out = append(out, r)
		}
	}
	return out
}

// split shuffles with the fixed seed, then cuts off the trailing holdout
// fraction (at least one row).
func split(x [][]float64, y []float64) (trainX [][]float64, trainY []float64, testX [][]float64, testY []float64) {
	n := len(x)
	perm := rand.New(rand.NewSource(trainSeed)).Perm(n)

	holdout := int(float64(n) * holdoutFraction)
	if holdout < 1 {
		holdout = 1
	}
	cut := n - holdout

	for i, p := range perm {
		if i < cut {
			trainX = append(trainX, x[p])
			trainY = append(trainY, y[p])
		} else {
			testX = append(testX, x[p])
			testY = append(testY, y[p])
		}
	}
	return trainX, trainY, testX, testY
}

func meanSquaredError(model Regressor, x [][]float64, y []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for i, row := range x {
		d := model.Predict(row) - y[i]
		sum += d * d
	}
	return sum / float64(len(x))
}
