// Package points converts a reported submission status into awarded points.
package points

import (
	"errors"
	"fmt"
	"math"

	"github.com/yukikurage/hospital-task-points/internal/models"
)

// ErrInvalidStatus is returned for statuses that cannot earn points.
var ErrInvalidStatus = errors.New("invalid submission status")

// Calculate returns the points awarded for status on a task worth
// defaultPoints under policy.
//
// Partial completion is defaultPoints*PartialRatio rounded up. Settings only
// accept "half_up", so the method is not consulted here.
func Calculate(status models.SubmissionStatus, defaultPoints int, policy models.RoundingPolicy) (int, error) {
	switch status {
	case models.SubmissionStatusCompleted:
		return defaultPoints, nil
	case models.SubmissionStatusNotStarted:
		return 0, nil
	case models.SubmissionStatusPartial:
		return int(math.Ceil(float64(defaultPoints) * policy.PartialRatio)), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
}
