package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	GoalsCreated       prometheus.Counter
	GoalsAchieved      prometheus.Counter
	CommunitiesCreated prometheus.Counter
	CommunityJoins     prometheus.Counter
	PostsCreated       prometheus.Counter
	UsersCreated       prometheus.Counter

	RequestDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		GoalsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "strive_goals_created_total",
			Help: "Total number of goals created",
		}),
		GoalsAchieved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "strive_goals_achieved_total",
			Help: "Total number of goals that reached their target",
		}),
		CommunitiesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "strive_communities_created_total",
			Help: "Total number of communities created",
		}),
		CommunityJoins: promauto.NewCounter(prometheus.CounterOpts{
			Name: "strive_community_joins_total",
			Help: "Total number of successful community joins",
		}),
		PostsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "strive_posts_created_total",
			Help: "Total number of posts created",
		}),
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "strive_users_created_total",
			Help: "Total number of users registered",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "strive_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}
