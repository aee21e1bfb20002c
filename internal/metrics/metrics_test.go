package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSubmission(t *testing.T) {
	success := testutil.ToFloat64(SubmissionsTotal.WithLabelValues(ResultSuccess))
	failure := testutil.ToFloat64(SubmissionsTotal.WithLabelValues(ResultFailure))
	doors := testutil.ToFloat64(SubmissionFailures.WithLabelValues("door_specifications"))

	RecordSubmission(true, "", 0.01)
	RecordSubmission(false, "door_specifications", 0.02)

	assert.Equal(t, success+1, testutil.ToFloat64(SubmissionsTotal.WithLabelValues(ResultSuccess)))
	assert.Equal(t, failure+1, testutil.ToFloat64(SubmissionsTotal.WithLabelValues(ResultFailure)))
	assert.Equal(t, doors+1, testutil.ToFloat64(SubmissionFailures.WithLabelValues("door_specifications")))
}

func TestRecordTransitionAndJob(t *testing.T) {
	before := testutil.ToFloat64(WizardTransitions.WithLabelValues("next", "rejected"))
	RecordTransition("next", false)
	assert.Equal(t, before+1, testutil.ToFloat64(WizardTransitions.WithLabelValues("next", "rejected")))

	beforeJob := testutil.ToFloat64(JobRuns.WithLabelValues("draft_cleanup", ResultFailure))
	RecordJob("draft_cleanup", errors.New("boom"))
	assert.Equal(t, beforeJob+1, testutil.ToFloat64(JobRuns.WithLabelValues("draft_cleanup", ResultFailure)))
}

func TestHandler(t *testing.T) {
	RecordTransition("back", true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "leadcapture_wizard_transitions_total")
}
