// Package metrics собирает метрики Prometheus по объявлениям и HTTP-ответам.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector: интерфейс, которым пользуются сервисы и middleware.
type MetricsCollector interface {
	RecordItemCreated()
	RecordItemDeleted()
	RecordQuotaRejected()
	RecordForbidden()
	RecordHTTPStatus(statusCode int)
}

// Collector реализует MetricsCollector на Prometheus.
type Collector struct {
	itemsCreated  prometheus.Counter
	itemsDeleted  prometheus.Counter
	quotaRejected prometheus.Counter
	forbidden     prometheus.Counter
	httpStatus    *prometheus.CounterVec
}

// NewCollector создаёт Collector и регистрирует метрики в reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		itemsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "classifieds_items_created_total",
			Help: "Number of created items",
		}),
		itemsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "classifieds_items_deleted_total",
			Help: "Number of deleted items",
		}),
		quotaRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "classifieds_quota_rejected_total",
			Help: "Item creations rejected by the per-user limit",
		}),
		forbidden: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "classifieds_forbidden_total",
			Help: "Edit/delete attempts by non-owners",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classifieds_http_status_total",
			Help: "HTTP responses by status code",
		}, []string{"status_code"}),
	}

	reg.MustRegister(c.itemsCreated, c.itemsDeleted, c.quotaRejected, c.forbidden, c.httpStatus)
	return c
}

func (c *Collector) RecordItemCreated()   { c.itemsCreated.Inc() }
func (c *Collector) RecordItemDeleted()   { c.itemsDeleted.Inc() }
func (c *Collector) RecordQuotaRejected() { c.quotaRejected.Inc() }
func (c *Collector) RecordForbidden()     { c.forbidden.Inc() }

// RecordHTTPStatus считает ответы по коду.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler возвращает HTTP-обработчик для скрейпа Prometheus.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
