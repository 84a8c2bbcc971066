package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordItemCreated()
	c.RecordItemCreated()
	c.RecordItemDeleted()
	c.RecordQuotaRejected()
	c.RecordForbidden()
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)
	c.RecordHTTPStatus(404)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.itemsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.itemsDeleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.quotaRejected))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.forbidden))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.httpStatus.WithLabelValues("404")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordItemCreated()

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "classifieds_items_created_total 1")
}
