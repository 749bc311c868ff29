package client

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"pagient/internal/domain/entity"
)

// Actions issues patient mutations ahead of the authoritative update. It
// never touches the store: the confirmed change arrives later through the
// stream consumer, so a failed request needs no local rollback.
type Actions struct {
	api *httpClient
	log *slog.Logger
}

func NewActions(api *httpClient, log *slog.Logger) *Actions {
	return &Actions{
		api: api,
		log: log,
	}
}

// CallPatient pages the patient: a copy of the record with status set to
// call is submitted as a full update.
func (a *Actions) CallPatient(ctx context.Context, patient *entity.Patient) error {
	if patient == nil {
		return nil
	}

	update := patient.Clone()
	update.Status = entity.StatusCall

	if err := a.api.UpdatePatient(ctx, update); err != nil {
		return fmt.Errorf("%w: call patient %d: %v", ErrUpdateRejected, patient.ID, err)
	}

	a.log.Info("patient called", "patient", patient.ID, "pager", patient.PagerID)
	return nil
}

// AssignPager hands the pager to the patient, or takes it away when pagerID
// is zero. A patient left inactive with no pager is of no further interest
// to the board and is deleted in a second request. The two requests carry no
// transactional guarantee: when the delete fails after the update succeeded
// the result is ErrPartialChain and the record stays inactive-and-unassigned
// on the server until corrected by hand.
func (a *Actions) AssignPager(ctx context.Context, patient *entity.Patient, pagerID uint) error {
	if patient == nil {
		return nil
	}

	update := patient.Clone()
	update.PagerID = pagerID

	if err := a.api.UpdatePatient(ctx, update); err != nil {
		return fmt.Errorf("%w: assign pager to patient %d: %v", ErrUpdateRejected, patient.ID, err)
	}

	if !update.Active && update.PagerID == 0 {
		if err := a.api.DeletePatient(ctx, update.ID); err != nil {
			return fmt.Errorf("%w: patient %d updated but not deleted: %v", ErrPartialChain, patient.ID, err)
		}
	}

	a.log.Info("pager assigned", "patient", patient.ID, "pager", pagerID)
	return nil
}
