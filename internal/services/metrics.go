package services

import "github.com/prometheus/client_golang/prometheus"

var (
	requestsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bloodbank_requests_created_total",
		Help: "Blood requests created.",
	})

	itemsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bloodbank_request_items_created_total",
		Help: "Blood request items created, by urgency.",
	}, []string{"urgency"})

	codeCollisions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bloodbank_item_code_collisions_total",
		Help: "Item code candidates rejected because they were already taken.",
	})

	validationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bloodbank_validation_failures_total",
		Help: "Blood request payloads rejected by validation.",
	})

	// cacheLookups is labelled by cache ("hospital", "stats") and result
	// ("hit", "miss").
	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bloodbank_cache_lookups_total",
		Help: "Read-through cache lookups.",
	}, []string{"cache", "result"})
)

func init() {
	prometheus.MustRegister(requestsCreated, itemsCreated, codeCollisions, validationFailures, cacheLookups)
}

func observeLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(cache, result).Inc()
}
