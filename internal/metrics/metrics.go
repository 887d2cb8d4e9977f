// Package metrics регистрирует prometheus-метрики приложения.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Значения метки result.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultError   = "error"
)

// Metrics — счетчики попыток входа и регистрации.
type Metrics struct {
	Signups *prometheus.CounterVec
	Logins  *prometheus.CounterVec
	Logouts prometheus.Counter
	Users   prometheus.GaugeFunc
}

// New создает метрики и регистрирует их в reg.
// userCount вызывается при каждом сборе метрик, так что webapp_users
// всегда совпадает с числом пользователей в хранилище.
func New(reg prometheus.Registerer, userCount func() int) *Metrics {
	m := &Metrics{
		Signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webapp",
			Name:      "signup_total",
			Help:      "Signup attempts by result.",
		}, []string{"result"}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webapp",
			Name:      "login_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		Logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "webapp",
			Name:      "logout_total",
			Help:      "Completed logouts.",
		}),
		Users: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "webapp",
			Name:      "users",
			Help:      "Registered users held in memory.",
		}, func() float64 {
			return float64(userCount())
		}),
	}
	reg.MustRegister(m.Signups, m.Logins, m.Logouts, m.Users)
	return m
}
