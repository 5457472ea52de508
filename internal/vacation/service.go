// Package vacation owns the vacation request lifecycle: who may create, list and
// review requests, and how a request moves from pending to approved or declined.
package vacation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"vacationManagement/internal/apperr"
	"vacationManagement/internal/auth"
	"vacationManagement/models"
	"vacationManagement/repository"
)

// Action is a manager decision on a vacation request.
type Action string

const (
	ActionApprove Action = "approve"
	ActionDecline Action = "decline"
)

// Target returns the status an action moves a vacation to.
func (a Action) Target() (models.VacationStatus, bool) {
	switch a {
	case ActionApprove:
		return models.VacationStatusApproved, true
	case ActionDecline:
		return models.VacationStatusDeclined, true
	}
	return "", false
}

// TransitionRecorder observes successful transitions (metrics).
type TransitionRecorder interface {
	RecordTransition(action string)
}

// Options tune the lifecycle rules.
type Options struct {
	// StrictTransitions rejects approve/decline on a vacation that is no longer pending.
	// When false the status is overwritten unconditionally.
	StrictTransitions bool
	Recorder          TransitionRecorder
}

// Service implements the vacation lifecycle on top of a VacationRepository.
type Service struct {
	vacations repository.VacationRepositoryI
	opts      Options
}

// NewService creates a lifecycle service.
func NewService(vacations repository.VacationRepositoryI, opts Options) *Service {
	return &Service{vacations: vacations, opts: opts}
}

// CreateInput is the payload of a new vacation request.
type CreateInput struct {
	StartDate string
	EndDate   string
	Reason    *string
}

// Create files a pending vacation for the caller.
// Authentication is checked before the dates.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Vacation, error) {
	p, err := auth.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.StartDate) == "" || strings.TrimSpace(in.EndDate) == "" {
		return nil, apperr.Unprocessable("Start and end dates required")
	}
	v, err := s.vacations.Create(ctx, &models.Vacation{
		UserID:    p.UserID,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Reason:    in.Reason,
		Status:    models.VacationStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create vacation: %w", err)
	}
	return v, nil
}

// ListOwn returns the caller's vacations, latest start date first.
func (s *Service) ListOwn(ctx context.Context) ([]models.Vacation, error) {
	p, err := auth.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.vacations.ListByUserID(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("list vacations of user %d: %w", p.UserID, err)
	}
	return list, nil
}

// ListFilter narrows ListAll. UserID 0 means every user.
type ListFilter struct {
	Status string
	UserID int64
}

// ListAll returns every vacation in the system (managers only), in insertion order.
func (s *Service) ListAll(ctx context.Context, f ListFilter) ([]models.Vacation, error) {
	if _, err := auth.RequireManager(ctx); err != nil {
		return nil, err
	}
	var rf repository.VacationFilter
	if st := strings.TrimSpace(f.Status); st != "" {
		status := models.VacationStatus(strings.ToLower(st))
		if !status.Valid() {
			return nil, apperr.Validation("Invalid status filter")
		}
		rf.Statuses = []models.VacationStatus{status}
	}
	if f.UserID < 0 {
		return nil, apperr.Validation("Invalid user filter")
	}
	if f.UserID > 0 {
		rf.UserID = &f.UserID
	}
	list, err := s.vacations.List(ctx, rf)
	if err != nil {
		return nil, fmt.Errorf("list vacations: %w", err)
	}
	return list, nil
}

// Approve moves a vacation to approved.
func (s *Service) Approve(ctx context.Context, id int64) (*models.Vacation, error) {
	return s.Transition(ctx, id, ActionApprove)
}

// Decline moves a vacation to declined.
func (s *Service) Decline(ctx context.Context, id int64) (*models.Vacation, error) {
	return s.Transition(ctx, id, ActionDecline)
}

// Transition applies a manager action to a vacation.
// Checks run in this order: id, authentication, manager role, existence.
func (s *Service) Transition(ctx context.Context, id int64, action Action) (*models.Vacation, error) {
	if id <= 0 {
		return nil, apperr.Validation("Invalid or missing id")
	}
	target, ok := action.Target()
	if !ok {
		return nil, apperr.Validation("Unknown action")
	}
	if _, err := auth.RequireManager(ctx); err != nil {
		return nil, err
	}
	v, err := s.vacations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get vacation %d: %w", id, err)
	}
	if v == nil {
		return nil, apperr.NotFound("Vacation not found")
	}
	if s.opts.StrictTransitions && v.Status != models.VacationStatusPending {
		return nil, apperr.Conflict(fmt.Sprintf("Vacation is already %s", v.Status))
	}
	if err := s.vacations.UpdateStatus(ctx, id, target); err != nil {
		return nil, fmt.Errorf("%s vacation %d: %w", action, id, err)
	}
	v.Status = target
	if s.opts.Recorder != nil {
		s.opts.Recorder.RecordTransition(string(action))
	}
	return v, nil
}

// ParseID validates a raw path id: a non-empty run of digits with a positive value.
func ParseID(raw string) (int64, error) {
	if raw == "" {
		return 0, apperr.Validation("Invalid or missing id")
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, apperr.Validation("Invalid or missing id")
		}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("Invalid or missing id")
	}
	return id, nil
}
