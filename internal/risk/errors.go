package risk

import "errors"

// Sentinel errors for the scoring pipeline. Handlers map these onto HTTP
// statuses; within the core they are matched with errors.Is.
var (
	// ErrDataUnavailable means the historical dataset could not be read.
	// Scoring fails closed rather than returning a default score.
	ErrDataUnavailable = errors.New("historical data not available")

	// ErrBidderNotFound means the address has no row in the dataset.
	ErrBidderNotFound = errors.New("bidder not found in dataset")

	// ErrInsufficientData means a category had fewer rows than the training
	// threshold. The category is skipped, not failed.
	ErrInsufficientData = errors.New("insufficient training data")

	// ErrModelFit wraps a numerical fitting failure, fatal for one category
	// only.
	ErrModelFit = errors.New("model fit failed")

	// ErrInvalidInput covers malformed request fields such as an unknown
	// bid type or a missing address.
	ErrInvalidInput = errors.New("invalid input")
)
