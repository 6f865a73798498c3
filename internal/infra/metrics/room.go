package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		onlineUsers,
		messagesTotal,
		broadcastsTotal,
		broadcastDrops,
		historyEvictions,
		loginFailures,
	)
}

var (
	onlineUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "room_online_users",
			Help: "Number of usernames currently logged in.",
		},
	)

	messagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "room_messages_total",
			Help: "Inbound chat submissions by classified kind.",
		},
		[]string{"kind"},
	)

	broadcastsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "room_broadcasts_total",
			Help: "Room-wide fan-out operations by event name.",
		},
		[]string{"event"},
	)

	broadcastDrops = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "room_broadcast_drops_total",
			Help: "Per-connection deliveries that failed and were dropped.",
		},
	)

	historyEvictions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "room_history_evictions_total",
			Help: "Messages evicted from the bounded history buffer.",
		},
	)

	loginFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "room_login_failures_total",
			Help: "Room logins rejected because the username was taken.",
		},
	)
)

func SetOnlineUsers(n int)      { onlineUsers.Set(float64(n)) }
func IncMessage(kind string)    { messagesTotal.WithLabelValues(norm(kind)).Inc() }
func IncBroadcast(event string) { broadcastsTotal.WithLabelValues(norm(event)).Inc() }
func IncBroadcastDrop()         { broadcastDrops.Inc() }
func IncHistoryEviction()       { historyEvictions.Inc() }
func IncLoginFailure()          { loginFailures.Inc() }

func norm(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
