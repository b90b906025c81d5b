package database

import (
	"testing"

	"clinic-management/config"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateLogger_WritesToInjectedLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.InfoLevel)

	l := migrateLogger{log: log}
	l.Printf("Start buffering %d/u %s\n", 2, "schedule_errors")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Start buffering 2/u schedule_errors", entry.Message)
	assert.Equal(t, "migrate", entry.Data["component"])
	assert.False(t, l.Verbose())

	log.SetLevel(logrus.DebugLevel)
	assert.True(t, l.Verbose())
}

func TestMigrationURL(t *testing.T) {
	url := migrationURL(config.DBConfig{
		Host:     "db",
		Port:     "5432",
		User:     "clinic",
		Password: "p@ss",
		Name:     "clinic",
	})

	assert.Equal(t, "pgx5://clinic:p%40ss@db:5432/clinic?sslmode=disable", url)
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_init_schema.up.sql")
	assert.Contains(t, names, "000002_schedule_errors.up.sql")
	assert.Contains(t, names, "000002_schedule_errors.down.sql")
}
