package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnsureRegisteredIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		EnsureRegistered()
		EnsureRegistered()
	})
}

func TestRecorders(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordSessionLoad(5 * time.Millisecond)
		RecordSessionSave(5 * time.Millisecond)
		SetOpenDocuments(3)
		RecordPersistedWrite("eager")
		RecordPersistedWrite("deferred")
		RecordLoadFailure("malformed")
		RecordAutosaveFailure()
	})
}

func TestMetricsHandler(t *testing.T) {
	assert.NotNil(t, MetricsHandler())
}
