package incidents

import (
	"context"
	"fmt"

	"presswatch/core/aggregates"
	"presswatch/core/store"
	"presswatch/core/utils"
)

// Submission carries the raw intake-form fields. Only AttackType is
// required; every other field falls back to the defaulting policy.
type Submission struct {
	PublicUserID   string
	AbuserHandle   string
	AttackType     string
	Description    string
	TargetOfAttack string
	ReporterName   string
	Affiliation    string
	EntityName     string
	ActionsTaken   string
	Platform       string
	Tags           string
	URL            string
}

// Service is the incident writer. A registration is a sequence of
// independently committing steps: incident row, aggregate counters,
// attachment blobs and rows. No step rolls back an earlier commit; each
// surfaces its own failure.
type Service struct {
	incidents   store.IncidentsStore
	updater     *aggregates.Updater
	attachments *AttachmentStore
	policy      DefaultingPolicy
	logger      *utils.Logger
}

func NewService(incidents store.IncidentsStore, updater *aggregates.Updater, attachments *AttachmentStore, logger *utils.Logger) *Service {
	return &Service{
		incidents:   incidents,
		updater:     updater,
		attachments: attachments,
		policy:      StandardDefaults(),
		logger:      logger,
	}
}

// SetDefaultingPolicy overrides the standard substitution table.
func (s *Service) SetDefaultingPolicy(policy DefaultingPolicy) {
	if policy != nil {
		s.policy = policy
	}
}

// Register validates and defaults the submission, writes the incident row,
// synchronously brings the aggregate counters up to date, then persists any
// uploads. The returned incident id is valid whenever the incident row
// committed, even if a later step failed; callers distinguish the failure
// stage by error type.
func (s *Service) Register(ctx context.Context, sub Submission, uploads []Upload) (int64, error) {
	sub = s.policy.Apply(sub)
	if sub.AttackType == "" {
		return 0, &ValidationError{Field: FieldAttackType}
	}
	incident := &store.Incident{
		PublicUserID:   sub.PublicUserID,
		AbuserHandle:   sub.AbuserHandle,
		AttackType:     sub.AttackType,
		Description:    sub.Description,
		TargetOfAttack: sub.TargetOfAttack,
		ReporterName:   sub.ReporterName,
		Affiliation:    sub.Affiliation,
		EntityName:     sub.EntityName,
		ActionsTaken:   sub.ActionsTaken,
		Platform:       sub.Platform,
		Tags:           sub.Tags,
		URL:            sub.URL,
	}
	id, err := s.incidents.CreateIncident(ctx, incident)
	if err != nil {
		if store.IsForeignKeyViolation(err) {
			return 0, &ValidationError{Field: FieldAttackType, Err: err}
		}
		return 0, fmt.Errorf("insert incident: %w", err)
	}
	if err := s.updater.ApplyIncidentWrite(ctx, sub.AttackType); err != nil {
		if s.logger != nil {
			s.logger.Errorf("incident %d committed, aggregate update failed: %v", id, err)
		}
		return id, err
	}
	if _, err := s.attachments.Persist(ctx, id, uploads); err != nil {
		if s.logger != nil {
			s.logger.Errorf("incident %d committed, attachment persist failed: %v", id, err)
		}
		return id, err
	}
	return id, nil
}

// ListByUser returns every incident submitted under the given public user id.
func (s *Service) ListByUser(ctx context.Context, publicUserID string) ([]store.Incident, error) {
	return s.incidents.ListIncidentsByUser(ctx, publicUserID)
}
