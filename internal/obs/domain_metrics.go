package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CartMutationsTotal counts cart store mutations by operation.
	CartMutationsTotal *prometheus.CounterVec
	// CheckoutMutationsTotal counts checkout store mutations by operation.
	CheckoutMutationsTotal *prometheus.CounterVec
	// CatalogFetchTotal counts catalog lookups by data source and outcome.
	CatalogFetchTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers the domain collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CartMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Count of cart store mutations by operation.",
		}, []string{"op"})
		CheckoutMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_mutations_total",
			Help:      "Count of checkout store mutations by operation.",
		}, []string{"op"})
		CatalogFetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_fetch_total",
			Help:      "Count of catalog lookups by source and result.",
		}, []string{"source", "result"})

		CartMutationsTotal = registerCounterVec(reg, CartMutationsTotal)
		CheckoutMutationsTotal = registerCounterVec(reg, CheckoutMutationsTotal)
		CatalogFetchTotal = registerCounterVec(reg, CatalogFetchTotal)
	})
}

// CountCartMutation increments the cart mutation counter when metrics are on.
func CountCartMutation(op string) {
	if CartMutationsTotal == nil {
		return
	}
	CartMutationsTotal.WithLabelValues(op).Inc()
}

// CountCheckoutMutation increments the checkout mutation counter.
func CountCheckoutMutation(op string) {
	if CheckoutMutationsTotal == nil {
		return
	}
	CheckoutMutationsTotal.WithLabelValues(op).Inc()
}

// CountCatalogFetch records a catalog lookup outcome.
func CountCatalogFetch(source, result string) {
	if CatalogFetchTotal == nil {
		return
	}
	CatalogFetchTotal.WithLabelValues(source, result).Inc()
}
