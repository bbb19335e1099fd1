package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/hospital-task-points/internal/constants"
	"github.com/yukikurage/hospital-task-points/internal/logger"
	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/points"
	"github.com/yukikurage/hospital-task-points/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmissionService reconciles staff submissions with awarded points and
// each user's running total.
type SubmissionService struct {
	store     repository.Store
	audit     *AuditService
	overview  *OverviewService
	txTimeout time.Duration
}

// NewSubmissionService creates a new SubmissionService. Each write
// transaction is bounded by txTimeout.
func NewSubmissionService(store repository.Store, audit *AuditService, overview *OverviewService, txTimeout time.Duration) *SubmissionService {
	if txTimeout <= 0 {
		txTimeout = constants.DefaultTxTimeout
	}
	return &SubmissionService{
		store:     store,
		audit:     audit,
		overview:  overview,
		txTimeout: txTimeout,
	}
}

// SubmitInput is a staff member's report on a task.
type SubmitInput struct {
	TaskID           uint64
	UserID           uint64
	Status           models.SubmissionStatus
	NotStartedReason *string
	EvidenceURL      *string
}

// SubmitResult is the stored submission and the submitter's overview
// after the change.
type SubmitResult struct {
	Submission *models.Submission
	Overview   *Overview
}

// RejectInput represents input for rejecting a submission
type RejectInput struct {
	SubmissionID uint64
	ActorID      uint64
	Reason       string
}

// OverrideInput represents input for manually setting awarded points
type OverrideInput struct {
	SubmissionID  uint64
	ActorID       uint64
	PointsAwarded *int
	Reason        string
	RowVersion    *int64
}

// Submit validates input, computes the award and upserts the single
// (task, user) submission in one transaction, adjusting the user's running
// total by the change in points.
func (s *SubmissionService) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	reason, evidence, err := validateSubmission(input)
	if err != nil {
		return nil, err
	}

	task, err := s.store.Tasks().FindByID(ctx, input.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if !task.AcceptsSubmissions() {
		return nil, ErrTaskArchived
	}

	var (
		stored     *models.Submission
		prior      *models.Submission
		awarded    int
		thresholds models.Thresholds
	)

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	err = s.store.Transaction(txCtx, func(tx repository.Store) error {
		settings, err := tx.Settings().Get(txCtx)
		if err != nil {
			return err
		}
		thresholds = settings.Thresholds

		awarded, err = points.Calculate(input.Status, task.DefaultPoints, settings.RoundingPolicy)
		if err != nil {
			return err
		}

		existing, err := tx.Submissions().FindByTaskAndUser(txCtx, input.TaskID, input.UserID)
		switch {
		case err == nil:
			snapshot := *existing
			prior = &snapshot
			if err := tx.Submissions().UpdateVersioned(txCtx, existing.ID, existing.Version, map[string]any{
				"status":             input.Status,
				"points_awarded":     awarded,
				"not_started_reason": reason,
				"evidence_url":       evidence,
				"rejection_reason":   nil,
				"rejected_by":        nil,
				"rejected_at":        nil,
			}); err != nil {
				return err
			}
			stored, err = tx.Submissions().FindByID(txCtx, existing.ID)
			if err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			stored = &models.Submission{
				TaskID:           input.TaskID,
				UserID:           input.UserID,
				Status:           input.Status,
				PointsAwarded:    awarded,
				NotStartedReason: reason,
				EvidenceURL:      evidence,
				CreatorID:        input.UserID,
			}
			if err := tx.Submissions().Create(txCtx, stored); err != nil {
				return err
			}
		default:
			return err
		}

		delta := awarded
		if prior != nil {
			delta -= prior.PointsAwarded
		}
		if delta != 0 {
			if err := tx.Users().AdjustReceivedPoints(txCtx, input.UserID, delta); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUserNotFound
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrVersionConflict), errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, s.submissionConflict(ctx, input.TaskID, input.UserID)
		case errors.Is(err, ErrUserNotFound):
			return nil, err
		}
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	if prior != nil {
		s.audit.Record(ctx, models.EntitySubmission, EntityID(stored.ID), models.AuditActionUpdate, input.UserID, map[string]any{
			"before":  map[string]any{"status": prior.Status, "points_awarded": prior.PointsAwarded},
			"after":   map[string]any{"status": stored.Status, "points_awarded": stored.PointsAwarded},
			"task_id": input.TaskID,
		})
	} else {
		s.audit.Record(ctx, models.EntitySubmission, EntityID(stored.ID), models.AuditActionSubmit, input.UserID, map[string]any{
			"status":         stored.Status,
			"points_awarded": stored.PointsAwarded,
			"task_id":        input.TaskID,
		})
	}

	result := &SubmitResult{Submission: stored}
	overview, err := s.overview.compute(ctx, input.UserID, task.DepartmentID)
	if err != nil {
		logger.Warn("failed to compute overview after submission",
			zap.Uint64("submission_id", stored.ID),
			zap.Error(err),
		)
		return result, nil
	}
	overview.Thresholds = &thresholds
	result.Overview = overview

	return result, nil
}

// Reject marks a submission rejected and zeroes its points. When the prior
// status was completed the user's running total loses the prior award.
func (s *SubmissionService) Reject(ctx context.Context, input RejectInput) (*models.Submission, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, invalid("rejection_reason", "is required")
	}
	if utf8.RuneCountInString(reason) > constants.MaxRejectionReasonLength {
		return nil, invalid("rejection_reason", fmt.Sprintf("must be at most %d characters", constants.MaxRejectionReasonLength))
	}

	var prior, stored *models.Submission

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	err := s.store.Transaction(txCtx, func(tx repository.Store) error {
		existing, err := tx.Submissions().FindByID(txCtx, input.SubmissionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubmissionNotFound
			}
			return err
		}
		prior = existing

		now := time.Now().UTC()
		if err := tx.Submissions().UpdateVersioned(txCtx, existing.ID, existing.Version, map[string]any{
			"status":           models.SubmissionStatusRejected,
			"points_awarded":   0,
			"rejection_reason": reason,
			"rejected_by":      input.ActorID,
			"rejected_at":      now,
		}); err != nil {
			return err
		}

		if existing.Status == models.SubmissionStatusCompleted && existing.PointsAwarded > 0 {
			if err := tx.Users().AdjustReceivedPoints(txCtx, existing.UserID, -existing.PointsAwarded); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUserNotFound
				}
				return err
			}
		}

		stored, err = tx.Submissions().FindByID(txCtx, existing.ID)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSubmissionNotFound), errors.Is(err, ErrUserNotFound):
			return nil, err
		case errors.Is(err, repository.ErrVersionConflict):
			return nil, s.conflictByID(ctx, input.SubmissionID)
		}
		return nil, fmt.Errorf("failed to reject submission: %w", err)
	}

	s.audit.Record(ctx, models.EntitySubmission, EntityID(stored.ID), models.AuditActionReject, input.ActorID, map[string]any{
		"before":           map[string]any{"status": prior.Status, "points_awarded": prior.PointsAwarded},
		"rejection_reason": reason,
		"task_id":          stored.TaskID,
		"user_id":          stored.UserID,
	})

	return stored, nil
}

// Override sets the awarded points of a submission directly, bypassing the
// calculator. The caller must hold the current row version.
func (s *SubmissionService) Override(ctx context.Context, input OverrideInput) (*models.Submission, error) {
	if input.PointsAwarded == nil {
		return nil, invalid("points_awarded", "is required")
	}
	if *input.PointsAwarded < 0 {
		return nil, invalid("points_awarded", "must be greater than or equal to 0")
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, invalid("reason", "is required")
	}
	if utf8.RuneCountInString(reason) > constants.MaxOverrideReasonLength {
		return nil, invalid("reason", fmt.Sprintf("must be at most %d characters", constants.MaxOverrideReasonLength))
	}
	if input.RowVersion == nil {
		return nil, invalid("row_version", "is required")
	}

	var prior, stored *models.Submission

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	err := s.store.Transaction(txCtx, func(tx repository.Store) error {
		existing, err := tx.Submissions().FindByID(txCtx, input.SubmissionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubmissionNotFound
			}
			return err
		}
		if existing.Version != *input.RowVersion {
			return &ConflictError{Entity: "submission", Current: existing}
		}
		prior = existing

		if err := tx.Submissions().UpdateVersioned(txCtx, existing.ID, *input.RowVersion, map[string]any{
			"points_awarded": *input.PointsAwarded,
		}); err != nil {
			return err
		}

		if delta := *input.PointsAwarded - existing.PointsAwarded; delta != 0 {
			if err := tx.Users().AdjustReceivedPoints(txCtx, existing.UserID, delta); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUserNotFound
				}
				return err
			}
		}

		stored, err = tx.Submissions().FindByID(txCtx, existing.ID)
		return err
	})
	if err != nil {
		var conflict *ConflictError
		switch {
		case errors.As(err, &conflict):
			return nil, conflict
		case errors.Is(err, ErrSubmissionNotFound), errors.Is(err, ErrUserNotFound):
			return nil, err
		case errors.Is(err, repository.ErrVersionConflict):
			return nil, s.conflictByID(ctx, input.SubmissionID)
		}
		return nil, fmt.Errorf("failed to override submission: %w", err)
	}

	s.audit.Record(ctx, models.EntitySubmission, EntityID(stored.ID), models.AuditActionOverride, input.ActorID, map[string]any{
		"before":  map[string]any{"points_awarded": prior.PointsAwarded, "row_version": prior.Version},
		"after":   map[string]any{"points_awarded": stored.PointsAwarded, "row_version": stored.Version},
		"reason":  reason,
		"task_id": stored.TaskID,
		"user_id": stored.UserID,
	})

	return stored, nil
}

// ListForUser lists a user's submissions, newest first.
func (s *SubmissionService) ListForUser(ctx context.Context, userID uint64) ([]models.Submission, error) {
	submissions, err := s.store.Submissions().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

// ListForTask lists the submissions of a task, newest first.
func (s *SubmissionService) ListForTask(ctx context.Context, taskID uint64) ([]models.Submission, error) {
	if _, err := s.store.Tasks().FindByID(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	submissions, err := s.store.Submissions().ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

// submissionConflict reports a lost race on the (task, user) row together
// with the row as it is now stored.
func (s *SubmissionService) submissionConflict(ctx context.Context, taskID, userID uint64) error {
	current, err := s.store.Submissions().FindByTaskAndUser(ctx, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to load conflicting submission: %w", err)
	}
	return &ConflictError{Entity: "submission", Current: current}
}

func (s *SubmissionService) conflictByID(ctx context.Context, id uint64) error {
	current, err := s.store.Submissions().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return fmt.Errorf("failed to load conflicting submission: %w", err)
	}
	return &ConflictError{Entity: "submission", Current: current}
}

// validateSubmission checks a report before anything is read or written and
// returns the normalized reason and evidence URL.
func validateSubmission(input SubmitInput) (*string, *string, error) {
	switch input.Status {
	case models.SubmissionStatusCompleted, models.SubmissionStatusPartial, models.SubmissionStatusNotStarted:
	default:
		return nil, nil, invalid("status", "must be one of completed, partial, not_started")
	}

	var reason *string
	if input.NotStartedReason != nil {
		if trimmed := strings.TrimSpace(*input.NotStartedReason); trimmed != "" {
			reason = &trimmed
		}
	}
	if input.Status == models.SubmissionStatusNotStarted {
		if reason == nil {
			return nil, nil, invalid("not_started_reason", "is required when status is not_started")
		}
		if utf8.RuneCountInString(*reason) > constants.MaxNotStartedReasonLength {
			return nil, nil, invalid("not_started_reason", fmt.Sprintf("must be at most %d characters", constants.MaxNotStartedReasonLength))
		}
	} else if reason != nil {
		return nil, nil, invalid("not_started_reason", "is only allowed when status is not_started")
	}

	var evidence *string
	if input.EvidenceURL != nil {
		if trimmed := strings.TrimSpace(*input.EvidenceURL); trimmed != "" {
			if !isHTTPURL(trimmed) {
				return nil, nil, invalid("evidence_url", "must be an absolute http or https URL")
			}
			evidence = &trimmed
		}
	}

	return reason, evidence, nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ListRecent lists the newest submissions across the organization. A
// non-positive limit means the default; limits above the feed cap are
// clamped.
func (s *SubmissionService) ListRecent(ctx context.Context, limit int) ([]models.Submission, error) {
	if limit <= 0 {
		limit = constants.DefaultRecentSubmissions
	}
	limit = min(limit, constants.MaxRecentSubmissions)

	submissions, err := s.store.Submissions().ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent submissions: %w", err)
	}
	return submissions, nil
}
