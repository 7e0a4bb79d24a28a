package app

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/jobdesk/backend/internal/config"
)

func TestNewWithMemoryStore(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	a, err := New(context.Background(), config.Config{
		StoreDriver:     config.DriverMemory,
		ReferencePrefix: "ORG",
		Timezone:        "UTC",
	}, logger)
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Service)
	assert.NotEmpty(t, a.Catalog.Team)
	assert.NoError(t, a.Ping(context.Background()))
}

func TestPingReportsDatabaseError(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	a := &App{Log: logger, ping: func(context.Context) error { return errors.New("down") }}
	assert.EqualError(t, a.Ping(context.Background()), "down")
}

func TestUnknownDriver(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	_, err := New(context.Background(), config.Config{StoreDriver: "mongo", Timezone: "UTC"}, logger)
	assert.ErrorContains(t, err, `unknown store driver "mongo"`)
}
