package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRefresh(t *testing.T) {
	before := testutil.ToFloat64(RefreshTotal.WithLabelValues(ResultFailure))
	RecordRefresh(ResultFailure, 20*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(RefreshTotal.WithLabelValues(ResultFailure)))
}

func TestRecordDerived(t *testing.T) {
	before := testutil.ToFloat64(DerivedTotal.WithLabelValues("MissingLog"))
	RecordDerived(map[string]int{"MissingLog": 4})
	assert.Equal(t, before+4, testutil.ToFloat64(DerivedTotal.WithLabelValues("MissingLog")))
}

func TestSetActive(t *testing.T) {
	SetActive(map[string]int{"OverduePayment": 2, "MissingInvoice": 1})
	assert.Equal(t, 2.0, testutil.ToFloat64(ActiveNotifications.WithLabelValues("OverduePayment")))
	assert.Equal(t, 2, testutil.CollectAndCount(ActiveNotifications))

	SetActive(map[string]int{"MissingLog": 5})
	assert.Equal(t, 1, testutil.CollectAndCount(ActiveNotifications))
}

func TestRecordHTTPRequestDuration(t *testing.T) {
	RecordHTTPRequestDuration("GET", "/api/v1/projects", "200", 5*time.Millisecond)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(HTTPRequestDuration), 1)
}
