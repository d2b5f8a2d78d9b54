package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// PriceResolutionsTotal counts display-price resolutions by item kind
	// and outcome (discounted, base, error).
	PriceResolutionsTotal *prometheus.CounterVec
	// SpecialsAppliedTotal counts applied specials by scope and discount type.
	SpecialsAppliedTotal *prometheus.CounterVec
	// SpecialStatusRecomputeRuns counts maintenance runs rewriting the
	// stored status label from timestamps.
	SpecialStatusRecomputeRuns prometheus.Counter
	// SpecialStatusRecomputeChanged tracks how many rows each run updated.
	SpecialStatusRecomputeChanged prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers domain-specific
// Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		PriceResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_resolutions_total",
			Help:      "Count of display price resolutions by item kind and outcome.",
		}, []string{"kind", "outcome"})
		SpecialsAppliedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "specials_applied_total",
			Help:      "Count of specials applied to display prices by scope and discount type.",
		}, []string{"scope", "discount_type"})
		SpecialStatusRecomputeRuns = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "special_status_recompute_runs_total",
			Help:      "Total number of special status recompute runs.",
		})
		SpecialStatusRecomputeChanged = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "special_status_recompute_changed_total",
			Help:      "Total number of special rows whose stored status was rewritten.",
		})
		reg.MustRegister(
			PriceResolutionsTotal,
			SpecialsAppliedTotal,
			SpecialStatusRecomputeRuns,
			SpecialStatusRecomputeChanged,
		)
	})
}

// ObservePriceResolution records one resolution outcome.
func ObservePriceResolution(kind, outcome string) {
	if PriceResolutionsTotal != nil {
		PriceResolutionsTotal.WithLabelValues(kind, outcome).Inc()
	}
}

// ObserveSpecialApplied records one applied special.
func ObserveSpecialApplied(scope, discountType string) {
	if SpecialsAppliedTotal != nil {
		SpecialsAppliedTotal.WithLabelValues(scope, discountType).Inc()
	}
}

// ObserveStatusRecompute records one maintenance run and its changed rows.
func ObserveStatusRecompute(changed int64) {
	if SpecialStatusRecomputeRuns != nil {
		SpecialStatusRecomputeRuns.Inc()
	}
	if SpecialStatusRecomputeChanged != nil && changed > 0 {
		SpecialStatusRecomputeChanged.Add(float64(changed))
	}
}
