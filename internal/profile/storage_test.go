package profile

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumee/lumee-platform/pkg/config"
	"github.com/lumee/lumee-platform/pkg/postgres"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// setupTestDB creates a connection against a PostgreSQL instance with the
// user_profiles schema applied
func setupTestDB(t *testing.T) postgres.Client {
	t.Skip("Integration test - requires PostgreSQL with user_profiles schema")

	cfg := config.NewConfig()
	cfg.LoadFromEnv()
	client := postgres.NewClient(cfg, testLogger())
	require.NoError(t, client.Connect(context.Background()))
	return client
}

func TestGetProfile_GuestShortCircuitsWithoutDB(t *testing.T) {
	// Empty and "guest" names never reach PostgreSQL; a nil client proves it
	store := NewPostgresStore(nil, testLogger())

	for _, name := range []string{"", "guest"} {
		p, err := store.GetProfile(context.Background(), name)
		require.NoError(t, err)
		assert.Equal(t, "guest", p.Name)
		assert.Empty(t, p.SensitiveFactors)
		assert.Empty(t, p.Schedule)
	}
}

func TestGuestProfile_NoSensitivities(t *testing.T) {
	p := GuestProfile()

	assert.False(t, p.IsSensitiveTo(SensitivityRespiratory))
	assert.False(t, p.IsSensitiveTo(SensitivityCold))
}

func TestIsSensitiveTo(t *testing.T) {
	p := &Profile{
		Name:             "dahee",
		SensitiveFactors: []Sensitivity{SensitivityRespiratory, SensitivityAllergy},
	}

	assert.True(t, p.IsSensitiveTo(SensitivityRespiratory))
	assert.True(t, p.IsSensitiveTo(SensitivityAllergy))
	assert.False(t, p.IsSensitiveTo(SensitivitySkin))
}

func TestGetProfile_KnownUser(t *testing.T) {
	client := setupTestDB(t)
	defer client.Disconnect()

	store := NewPostgresStore(client, testLogger())

	p, err := store.GetProfile(context.Background(), "dahee")
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, "dahee", p.Name)
}

func TestGetProfile_UnknownUserFallsBackToGuest(t *testing.T) {
	client := setupTestDB(t)
	defer client.Disconnect()

	store := NewPostgresStore(client, testLogger())

	p, err := store.GetProfile(context.Background(), "nobody-registered-here")
	require.NoError(t, err)
	assert.Equal(t, "guest", p.Name)
}
