package reconciler

import (
	"context"
	"fmt"

	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/logging"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/models"
	"github.com/Yolt-group/accounts-and-transactions-sub000/internal/reconcileerror"
)

// ActivePassive runs a passive strategy in the shadow of an active one. Only
// the active result is returned; the passive one is compared and logged.
type ActivePassive struct {
	active  Strategy
	passive Strategy
	logger  logging.Logger
}

// NewActivePassive fails unless active is in ACTIVE mode and passive in TEST mode.
func NewActivePassive(active, passive Strategy, logger logging.Logger) (*ActivePassive, error) {
	if active == nil || passive == nil {
		return nil, reconcileerror.NewConfigurationError(AlgorithmActivePassive, "both an active and a passive strategy are required")
	}
	if active.Mode() != ModeActive {
		return nil, reconcileerror.NewConfigurationError(AlgorithmActivePassive,
			"active strategy %s must run in %s mode, got %s", active.Name(), ModeActive, active.Mode())
	}
	if passive.Mode() != ModeTest {
		return nil, reconcileerror.NewConfigurationError(AlgorithmActivePassive,
			"passive strategy %s must run in %s mode, got %s", passive.Name(), ModeTest, passive.Mode())
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &ActivePassive{active: active, passive: passive, logger: logger}, nil
}

// Name implements Strategy.
func (a *ActivePassive) Name() string {
	return a.active.Name() + "/" + a.passive.Name()
}

// Mode implements Strategy.
func (a *ActivePassive) Mode() Mode { return ModeActive }

func (*ActivePassive) isStrategy() {}

// Active returns the strategy whose result is applied.
func (a *ActivePassive) Active() Strategy { return a.active }

// Passive returns the shadow strategy.
func (a *ActivePassive) Passive() Strategy { return a.passive }

// Reconcile implements Strategy.
func (a *ActivePassive) Reconcile(ctx context.Context, req Request) (models.Instruction, error) {
	logger := a.logger.WithFields(
		logging.F(logging.FieldProvider, req.Provider),
		logging.F(logging.FieldAccountID, req.AccountID))

	shadow, shadowErr := a.runPassive(ctx, req)
	if shadowErr != nil {
		logger.WithError(shadowErr).Debug("Passive strategy failed",
			logging.F(logging.FieldStrategy, a.passive.Name()),
			logging.F(logging.FieldFailureClass, string(reconcileerror.ClassOf(shadowErr))))
	}

	result, err := a.active.Reconcile(ctx, req)
	if err != nil {
		return result, err
	}
	if shadowErr == nil {
		compare(logger, result, shadow)
	}
	return result, nil
}

// runPassive turns a panic of the passive strategy into an error.
func (a *ActivePassive) runPassive(ctx context.Context, req Request) (instr models.Instruction, err error) {
	defer func() {
		if r := recover(); r != nil {
			instr, err = models.Instruction{}, fmt.Errorf("passive strategy %s panicked: %v", a.passive.Name(), r)
		}
	}()
	return a.passive.Reconcile(ctx, req)
}

func compare(logger logging.Logger, active, passive models.Instruction) {
	fields := []logging.Field{
		logging.F("inserts_active", len(active.Inserts)),
		logging.F("inserts_passive", len(passive.Inserts)),
		logging.F("updates_active", len(active.Updates)),
		logging.F("updates_passive", len(passive.Updates)),
		logging.F("deletes_active", len(active.Deletes)),
		logging.F("deletes_passive", len(passive.Deletes)),
	}
	if len(active.Inserts) == len(passive.Inserts) &&
		len(active.Updates) == len(passive.Updates) &&
		len(active.Deletes) == len(passive.Deletes) {
		logger.Debug("Passive strategy agrees with active strategy", fields...)
		return
	}
	logger.Info("Passive strategy differs from active strategy", fields...)
}
