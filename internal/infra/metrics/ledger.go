package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		requestsSubmittedTotal,
		requestsDecidedTotal,
		codesRedeemedTotal,
		subscriptionsGrantedTotal,
		pendingRequests,
		activeSubscriptions,
	)
}

var (
	requestsSubmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscription_requests_submitted_total",
			Help: "Total subscription requests submitted by students.",
		},
	)

	requestsDecidedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_requests_decided_total",
			Help: "Total admin decisions on subscription requests.",
		},
		[]string{"decision"}, // 'approved', 'rejected'
	)

	codesRedeemedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "prepaid_codes_redeemed_total",
			Help: "Total successful prepaid code redemptions.",
		},
	)

	subscriptionsGrantedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_granted_total",
			Help: "Total subscriptions created or replaced by the ledger.",
		},
	)

	pendingRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "subscription_requests_pending",
			Help: "Current number of pending subscription requests.",
		},
	)

	activeSubscriptions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "subscriptions_active",
			Help: "Current number of subscriptions with stored status Active.",
		},
	)
)

func IncRequestsSubmitted() { requestsSubmittedTotal.Inc() }

func IncRequestsDecided(decision string) { requestsDecidedTotal.WithLabelValues(decision).Inc() }

func IncCodesRedeemed() { codesRedeemedTotal.Inc() }

func AddSubscriptionsGranted(n int) { subscriptionsGrantedTotal.Add(float64(n)) }

func SetPendingRequests(n int) { pendingRequests.Set(float64(n)) }

func SetActiveSubscriptions(n int) { activeSubscriptions.Set(float64(n)) }
