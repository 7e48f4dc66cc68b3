package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDecision(t *testing.T) {
	before := testutil.ToFloat64(adminDecisionsTotal.WithLabelValues("approve", "applied"))
	RecordDecision("approve", "applied")
	RecordDecision("approve", "applied")
	after := testutil.ToFloat64(adminDecisionsTotal.WithLabelValues("approve", "applied"))
	assert.Equal(t, before+2, after)
}

func TestStartUpdateCounts(t *testing.T) {
	before := testutil.ToFloat64(updatesTotal.WithLabelValues("callback"))
	done := StartUpdate("callback")
	done()
	assert.Equal(t, before+1, testutil.ToFloat64(updatesTotal.WithLabelValues("callback")))
}
