package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"recruitflow/cv-extractor/internal/models"
	"recruitflow/cv-extractor/internal/repositories"
)

// Dispatcher fans a submitted batch of applicants out to the extractor.
// One worker goroutine per batch; within a batch, applicants are processed
// sequentially so at most one provider call and one job's writes are in
// flight per batch at any time.
type Dispatcher struct {
	store     repositories.Store
	extractor *Extractor
	notifier  Notifier
	wg        sync.WaitGroup
}

func NewDispatcher(store repositories.Store, extractor *Extractor, notifier Notifier) *Dispatcher {
	return &Dispatcher{
		store:     store,
		extractor: extractor,
		notifier:  notifier,
	}
}

// Submit filters the batch down to eligible applicants, marks them pending
// and hands them to a background worker. The pending transition is
// committed before the worker starts, so a concurrent observer always sees
// pending rather than a stale prior state, and a worker that never runs
// leaves records visibly queued instead of silently reverted.
//
// Returns ErrNoEligibleApplicants when the filtered set is empty; that is
// the only failure the caller sees synchronously.
func (d *Dispatcher) Submit(applicantIDs []uuid.UUID) (int, error) {
	applicants, err := d.store.Applicants().FindByIDs(applicantIDs)
	if err != nil {
		return 0, err
	}

	companies := map[uuid.UUID]*models.Company{}
	var eligible []uuid.UUID
	for i := range applicants {
		applicant := &applicants[i]
		company, ok := companies[applicant.CompanyID]
		if !ok {
			company, err = d.store.Companies().FindByID(applicant.CompanyID)
			if err != nil {
				log.Printf("⚠️  Could not load company for applicant %s: %v", applicant.ID, err)
				company = nil
			}
			companies[applicant.CompanyID] = company
		}
		if d.extractor.CanExtract(applicant, company) {
			eligible = append(eligible, applicant.ID)
		}
	}

	if len(eligible) == 0 {
		return 0, ErrNoEligibleApplicants
	}

	for _, id := range eligible {
		if err := d.store.Applicants().UpdateExtractState(id, models.ExtractStatePending,
			"Pending: Queued for extraction..."); err != nil {
			return 0, err
		}
	}

	d.wg.Add(1)
	go d.runBatch(eligible)

	return len(eligible), nil
}

// Wait blocks until every in-flight batch has drained. Used on shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) runBatch(ids []uuid.UUID) {
	defer d.wg.Done()
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("❌ Extraction batch crashed: %v", rec)
			d.sweepFailed(ids, &DispatchError{Err: fmt.Errorf("%v", rec)})
		}
	}()

	d.notifier.BatchStarted(len(ids))

	failed := 0
	for _, id := range ids {
		// Sequential on purpose: one job runs to its done/error outcome
		// before the next starts.
		if err := d.extractor.Run(context.Background(), id); err != nil {
			failed++
		}
	}

	d.notifier.BatchCompleted(len(ids), failed)
}

// sweepFailed marks everything the crashed worker left mid-flight as
// error, through the isolated error-write path. Records that already
// reached a terminal state keep their outcome; nothing may stay stranded
// in pending.
func (d *Dispatcher) sweepFailed(ids []uuid.UUID, cause *DispatchError) {
	for _, id := range ids {
		applicant, err := d.store.Applicants().FindByID(id)
		if err != nil {
			log.Printf("❌ Could not load applicant %s during failure sweep: %v", id, err)
			continue
		}
		if applicant.ExtractState == models.ExtractStateDone ||
			applicant.ExtractState == models.ExtractStateError {
			continue
		}
		if err := d.store.Applicants().UpdateExtractState(id, models.ExtractStateError,
			fmt.Sprintf("Error: %v", cause)); err != nil {
			log.Printf("❌ Could not write error state for applicant %s: %v", id, err)
		}
	}
}
