package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/example/jobdesk/backend/internal/metrics"
	"github.com/example/jobdesk/backend/internal/models"
	"github.com/example/jobdesk/backend/internal/mq"
	"github.com/example/jobdesk/backend/internal/query"
	"github.com/example/jobdesk/backend/internal/repository"
)

// Store is the persistence contract every request store satisfies.
type Store interface {
	// List returns every request, newest first.
	List(ctx context.Context) ([]models.Request, error)
	Get(ctx context.Context, ref string) (*models.Request, error)
	Insert(ctx context.Context, req *models.Request) error
	// Mutate loads one request, applies fn and persists the result as one
	// atomic step. When fn fails nothing is written and its error is returned.
	Mutate(ctx context.Context, ref string, fn func(*models.Request) error) (*models.Request, error)
	// NextSequence atomically increments and returns the reference counter.
	NextSequence(ctx context.Context) (int64, error)
	Marker(ctx context.Context, name string) (bool, error)
	SetMarker(ctx context.Context, name string) error
}

// Outcome is a department head decision.
type Outcome string

const (
	OutcomeApprove Outcome = "approve"
	OutcomeReject  Outcome = "reject"
)

// Timeline action texts.
const (
	actionEndorsed = "Endorsed by HOD"
	actionRejected = "Rejected by HOD"
)

// Settings tunes a RequestService. Zero values fall back to defaults.
type Settings struct {
	ReferencePrefix string
	DecisionActor   string
	TeamActor       string
	Policy          models.TransitionPolicy
	Location        *time.Location
	Clock           Clock
}

// RequestService owns the request lifecycle: creation, the HOD decision,
// assignment, stage changes and internal notes.
type RequestService struct {
	store    Store
	mq       mq.Publisher
	log      logrus.FieldLogger
	validate *validator.Validate

	prefix        string
	decisionActor string
	teamActor     string
	policy        models.TransitionPolicy
	loc           *time.Location
	clock         Clock

	seedMu sync.Mutex
}

// NewRequestService builds a service with dependencies.
func NewRequestService(store Store, publisher mq.Publisher, log logrus.FieldLogger, settings Settings) *RequestService {
	s := &RequestService{
		store:         store,
		mq:            publisher,
		log:           log,
		validate:      newValidator(),
		prefix:        settings.ReferencePrefix,
		decisionActor: settings.DecisionActor,
		teamActor:     settings.TeamActor,
		policy:        settings.Policy,
		loc:           settings.Location,
		clock:         settings.Clock,
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.prefix == "" {
		s.prefix = "ORG"
	}
	if s.decisionActor == "" {
		s.decisionActor = "HOD"
	}
	if s.teamActor == "" {
		s.teamActor = "Digital Comms Team"
	}
	if s.policy == nil {
		s.policy = models.PermissiveTransitions{}
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.clock == nil {
		s.clock = SystemClock
	}
	return s
}

// Now is the service clock in the configured location.
func (s *RequestService) Now() time.Time {
	return s.clock.Now().In(s.loc)
}

// Create validates the submission, mints a reference and stores the request
// in pending_approval. Validation runs before a reference is allocated, so a
// refused submission never consumes a number.
func (s *RequestService) Create(ctx context.Context, in CreateInput) (*models.Request, error) {
	in.normalize()
	plain, err := s.validateCreate(&in)
	if err != nil {
		metrics.RecordOperation("create", result(err))
		return nil, err
	}

	now := s.clock.Now()
	requested := in.RequestedDate
	if requested == "" {
		requested = now.In(s.loc).Format(models.DateLayout)
	}

	seq, err := s.store.NextSequence(ctx)
	if err != nil {
		metrics.RecordOperation("create", result(err))
		return nil, errors.Wrap(err, "allocate reference")
	}

	req := &models.Request{
		Reference:        models.FormatReference(s.prefix, now.In(s.loc).Year(), seq),
		Seq:              seq,
		Status:           models.StatusPendingApproval,
		RequestedBy:      in.RequestedBy,
		Email:            in.Email,
		Department:       in.Department,
		HODEmail:         in.HODEmail,
		Category:         in.Category,
		Subtypes:         in.Subtypes,
		RequestedDate:    requested,
		DueDate:          in.DueDate,
		SubmittedAt:      now,
		JobPurpose:       in.JobPurpose,
		Description:      in.Description,
		DescriptionPlain: plain,
		References:       in.References,
		Timeline:         []models.TimelineEntry{},
	}
	req.Record(models.SubmittedAction, in.RequestedBy, now)

	// A failed insert leaves a gap in the sequence; numbers are never reused.
	if err := s.store.Insert(ctx, req); err != nil {
		metrics.RecordOperation("create", result(err))
		return nil, errors.Wrapf(err, "store request %s", req.Reference)
	}
	metrics.RecordOperation("create", "ok")

	s.log.WithField("reference", req.Reference).
		WithField("category", req.Category).
		WithField("requested_by", req.RequestedBy).
		Info("request submitted")
	s.publishEvent(ctx, mq.EventRequestCreated, req, in.RequestedBy)
	return req, nil
}

// Decide records the department head decision. Only pending requests that
// were never decided can be decided; a second decision fails and leaves the
// record untouched, even after a status change back to pending.
func (s *RequestService) Decide(ctx context.Context, ref string, outcome Outcome, reason, actor string) (*models.Request, error) {
	var target models.RequestStatus
	switch outcome {
	case OutcomeApprove:
		target = models.StatusApproved
	case OutcomeReject:
		target = models.StatusRejected
	default:
		err := newValidationError("outcome", "must be approve or reject")
		metrics.RecordOperation("decide", result(err))
		return nil, err
	}
	actor = s.actorOr(actor, s.decisionActor)
	reason = strings.TrimSpace(reason)
	now := s.clock.Now()

	req, err := s.mutate(ctx, "decide", ref, func(r *models.Request) error {
		if r.Status != models.StatusPendingApproval || r.ApprovedAt != nil || r.RejectedAt != nil {
			return &TransitionError{Reference: r.Reference, From: r.Status, To: target}
		}
		r.Status = target
		if target == models.StatusApproved {
			r.ApprovedAt = &now
			r.Record(actionEndorsed, actor, now)
			return nil
		}
		r.RejectedAt = &now
		r.RejectionReason = reason
		action := actionRejected
		if reason != "" {
			action += ": " + reason
		}
		r.Record(action, actor, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithField("reference", ref).WithField("outcome", outcome).Info("request decided")
	s.publishEvent(ctx, mq.EventRequestDecided, req, actor)
	return req, nil
}

// Assign sets or replaces the responsible team member. Roster membership is
// the caller's concern.
func (s *RequestService) Assign(ctx context.Context, ref, assignee, actor string) (*models.Request, error) {
	assignee = strings.TrimSpace(assignee)
	if assignee == "" {
		err := newValidationError("assignee", "is required")
		metrics.RecordOperation("assign", result(err))
		return nil, err
	}
	actor = s.actorOr(actor, s.teamActor)
	now := s.clock.Now()

	req, err := s.mutate(ctx, "assign", ref, func(r *models.Request) error {
		name := assignee
		r.AssignedTo = &name
		r.Record("Assigned to "+assignee, actor, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithField("reference", ref).WithField("assignee", assignee).Info("request assigned")
	s.publishEvent(ctx, mq.EventRequestAssigned, req, actor)
	return req, nil
}

// ChangeStatus moves a request to another stage. The configured policy
// decides which moves are allowed; by default every move is.
func (s *RequestService) ChangeStatus(ctx context.Context, ref string, status models.RequestStatus, actor string) (*models.Request, error) {
	if !status.Valid() {
		err := newValidationError("status", "must be one of the six request statuses")
		metrics.RecordOperation("change_status", result(err))
		return nil, err
	}
	actor = s.actorOr(actor, s.teamActor)
	now := s.clock.Now()

	req, err := s.mutate(ctx, "change_status", ref, func(r *models.Request) error {
		if !s.policy.Allow(r.Status, status) {
			return &TransitionError{Reference: r.Reference, From: r.Status, To: status}
		}
		r.Status = status
		r.Record("Status changed to: "+status.Label(), actor, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithField("reference", ref).WithField("status", status).Info("request status changed")
	s.publishEvent(ctx, mq.EventRequestStatusChanged, req, actor)
	return req, nil
}

// SetNotes overwrites the internal notes. Notes are not audited.
func (s *RequestService) SetNotes(ctx context.Context, ref, notes string) (*models.Request, error) {
	req, err := s.mutate(ctx, "set_notes", ref, func(r *models.Request) error {
		r.InternalNotes = notes
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, mq.EventRequestNotesUpdated, req, s.teamActor)
	return req, nil
}

// Get returns a single request.
func (s *RequestService) Get(ctx context.Context, ref string) (*models.Request, error) {
	req, err := s.store.Get(ctx, ref)
	if err != nil {
		return nil, translate(err, ref)
	}
	return req, nil
}

// List returns every request, newest first.
func (s *RequestService) List(ctx context.Context) ([]models.Request, error) {
	all, err := s.store.List(ctx)
	return all, errors.Wrap(err, "list requests")
}

// Search applies a status filter and search text over the collection.
func (s *RequestService) Search(ctx context.Context, f query.Filter) ([]models.Request, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.List(all, f), nil
}

// Board groups the collection by status for the stage board.
func (s *RequestService) Board(ctx context.Context) ([]query.Column, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Board(all), nil
}

func (s *RequestService) Stats(ctx context.Context) (query.Stats, error) {
	all, err := s.List(ctx)
	if err != nil {
		return query.Stats{}, err
	}
	return query.ComputeStats(all), nil
}

// Overdue returns open requests whose due date is before today.
func (s *RequestService) Overdue(ctx context.Context) ([]models.Request, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.OverdueOpen(all, s.Now()), nil
}

func (s *RequestService) mutate(ctx context.Context, op, ref string, fn func(*models.Request) error) (*models.Request, error) {
	req, err := s.store.Mutate(ctx, ref, fn)
	if err != nil {
		err = translate(err, ref)
	}
	metrics.RecordOperation(op, result(err))
	return req, err
}

func translate(err error, ref string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errors.Wrapf(ErrNotFound, "request %s", ref)
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrInvalidTransition) {
		return err
	}
	return errors.Wrapf(err, "request %s", ref)
}

func (s *RequestService) actorOr(actor, fallback string) string {
	if actor = strings.TrimSpace(actor); actor != "" {
		return actor
	}
	return fallback
}

// publishEvent is best effort: the change is already committed, so a broker
// failure is logged and not returned.
func (s *RequestService) publishEvent(ctx context.Context, name string, req *models.Request, actor string) {
	if s.mq == nil {
		return
	}
	event := mq.RequestEvent{
		ID:          uuid.NewString(),
		Event:       name,
		Reference:   req.Reference,
		Status:      string(req.Status),
		Category:    string(req.Category),
		RequestedBy: req.RequestedBy,
		Department:  req.Department,
		AssignedTo:  req.Assignee(),
		Actor:       actor,
		OccurredAt:  s.clock.Now().UTC(),
	}
	if err := s.mq.Publish(ctx, event); err != nil {
		s.log.WithError(err).WithField("event", name).WithField("reference", req.Reference).
			Warn("publish event failed")
	}
}
