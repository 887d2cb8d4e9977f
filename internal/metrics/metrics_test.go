package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNew_RegistersAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	users := 3
	m := New(reg, func() int { return users })

	m.Logins.WithLabelValues(ResultSuccess).Inc()
	m.Logins.WithLabelValues(ResultFailure).Inc()
	m.Logins.WithLabelValues(ResultFailure).Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Logins.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Logins.WithLabelValues(ResultFailure)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Users))

	users = 5
	assert.Equal(t, 5.0, testutil.ToFloat64(m.Users))

	count, err := testutil.GatherAndCount(reg, "webapp_login_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNew_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	count := func() int { return 0 }
	New(reg, count)
	assert.Panics(t, func() { New(reg, count) })
}
