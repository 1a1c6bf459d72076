// internal/surveyclient/save.go
package surveyclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/canopyhub/internal/domain/models"
	"go.uber.org/zap"
)

// ErrNoID is returned when saving a survey that has never been created.
var ErrNoID = errors.New("survey has no id")

// Result describes one save.
//
// Success is false only when the PUT was answered with a non-2xx status;
// Status and Body then hold that answer. Warnings lists read-back
// mismatches, which never turn a save into a failure.
type Result struct {
	Success  bool
	Status   int
	Body     string
	Survey   models.Survey
	Warnings []string
}

// Save flushes st, PUTs the survey and reads it back to check that what was
// sent was stored. On success the state holds the stored survey, unless
// the user edited st while the save was running: those edits stay staged
// for the next save (see State.Settle).
//
// A transport error is returned as err. A failed read-back is logged and
// otherwise ignored. Nothing is retried.
func (c *Client) Save(ctx context.Context, st *State) (Result, error) {
	payload := BuildPayload(st.Flush())
	if payload.ID.IsZero() {
		return Result{}, ErrNoID
	}
	path := fmt.Sprintf("%s/viewAll/%s", surveysPath, payload.ID.Hex())
	log := c.Log.With(zap.String("survey_id", payload.ID.Hex()), zap.String("ref_id", payload.RefID))

	var saved models.Survey
	status, err := c.doJSON(ctx, http.MethodPut, path, payload, &saved, nil)
	if err != nil {
		var ae *APIError
		if errors.As(err, &ae) {
			log.Warn("survey save rejected", zap.Int("status", ae.Status), zap.String("body", ae.Body))
			return Result{Success: false, Status: ae.Status, Body: ae.Body}, nil
		}
		return Result{}, err
	}

	res := Result{Success: true, Status: status, Survey: saved}
	stored, err := c.Survey(ctx, payload.ID)
	if err != nil {
		log.Warn("survey read-back failed, keeping save result", zap.Error(err))
		settle(log, st, saved)
		return res, nil
	}

	res.Survey = stored
	res.Warnings = compare(footprintOf(payload), footprintOf(stored))
	for _, w := range res.Warnings {
		log.Warn("survey read-back mismatch", zap.String("detail", w))
	}
	settle(log, st, stored)
	return res, nil
}

func settle(log *zap.Logger, st *State, stored models.Survey) {
	if st.Settle(stored) {
		log.Debug("survey edited during save, keeping local edits")
	}
}
