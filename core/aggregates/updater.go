package aggregates

import (
	"context"
	"fmt"

	"presswatch/core/store"
	"presswatch/core/utils"
)

const (
	StageIncrement = "increment"
	StageRecompute = "recompute"
)

// UpdateError reports which aggregate stage failed. An increment failure
// means the attack-type counter row was missing or the update itself failed;
// a recompute failure means the platform aggregation could not be applied.
// In both cases the originating incident stays committed.
type UpdateError struct {
	Stage string
	Err   error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("aggregate %s failed: %v", e.Stage, e.Err)
}

func (e *UpdateError) Unwrap() error { return e.Err }

// Updater maintains the two derived counter tables with deliberately
// different strategies: attack-type counters are bumped in place on each
// write, platform counters are fully recomputed from the incident log. The
// split is inherited product behavior; do not unify the two paths without a
// product decision.
type Updater struct {
	aggregates store.AggregatesStore
	incidents  store.IncidentsStore
	logger     *utils.Logger
}

func NewUpdater(aggregates store.AggregatesStore, incidents store.IncidentsStore, logger *utils.Logger) *Updater {
	return &Updater{aggregates: aggregates, incidents: incidents, logger: logger}
}

// ApplyIncidentWrite runs both strategies for one committed incident: the
// atomic attack-type bump, then the full platform recompute.
func (u *Updater) ApplyIncidentWrite(ctx context.Context, attackType string) error {
	if err := u.aggregates.IncrementAttackTypeCount(ctx, attackType); err != nil {
		return &UpdateError{Stage: StageIncrement, Err: err}
	}
	if _, err := u.RecomputePlatformCounts(ctx); err != nil {
		return err
	}
	return nil
}

// RecomputePlatformCounts is the reconciliation pass: group incidents by
// platform and overwrite every platform counter. Idempotent and safe to run
// concurrently with writes; the result reflects whatever incident state
// existed at query time. Returns the number of counter rows that changed.
func (u *Updater) RecomputePlatformCounts(ctx context.Context) (int64, error) {
	groups, err := u.incidents.CountIncidentsByPlatform(ctx)
	if err != nil {
		return 0, &UpdateError{Stage: StageRecompute, Err: err}
	}
	affected, err := u.aggregates.ReconcilePlatformCounts(ctx, groups)
	if err != nil {
		return 0, &UpdateError{Stage: StageRecompute, Err: err}
	}
	return affected, nil
}
