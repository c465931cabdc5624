package main

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestRunIsRepeatable(t *testing.T) {
	a, err := run("sandbox", 300, 0.02, 0, quietLogger())
	require.NoError(t, err)
	b, err := run("sandbox", 300, 0.02, 0, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := run("sandbox", 301, 0.02, 0, quietLogger())
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestRunLogsState(t *testing.T) {
	log, hook := test.NewNullLogger()
	_, err := run("flat", 50, 0.02, 25, log)
	require.NoError(t, err)

	var progress, bodies, platforms int
	for _, e := range hook.AllEntries() {
		switch e.Message {
		case "simcheck: progress":
			progress++
		case "simcheck: body":
			bodies++
			assert.Equal(t, "player", e.Data["body"])
		case "simcheck: platform":
			platforms++
		}
	}
	assert.Equal(t, 2, progress)
	assert.Equal(t, 1, bodies)
	assert.Equal(t, 1, platforms)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "simcheck: done", last.Message)
	assert.Equal(t, uint64(50), last.Data["ticks"])
}

func TestRunRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		level string
		ticks int
		dt    float64
	}{
		{"negative ticks", "flat", -1, 0.02},
		{"zero dt", "flat", 10, 0},
		{"missing level", "nowhere", 10, 0.02},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := run(c.level, c.ticks, c.dt, 0, quietLogger())
			assert.Error(t, err)
		})
	}
}
