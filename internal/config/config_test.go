package config

import (
	"context"
	"testing"

	"kamulog-stk/internal/adapters/persistence/repositories"
	"kamulog-stk/internal/core/domain"
	"kamulog-stk/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessDefaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")

	cfg, err := Process()
	require.NoError(t, err)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, 1, cfg.Assembly.MaxProxiesPerReceiver)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Empty(t, cfg.DigestCron)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
}

func TestProcessUsesModePrefix(t *testing.T) {
	t.Setenv("APP_MODE", " prod ")
	t.Setenv("DEV_DB_HOST", "dev-host")
	t.Setenv("PROD_DB_HOST", "prod-host")
	t.Setenv("PROD_DB_DRIVER", "postgres")
	t.Setenv("PROD_JWT_SECRET", "s3cret")
	t.Setenv("ASSEMBLY_MAX_PROXIES_PER_RECEIVER", "0")
	t.Setenv("ALLOWED_ORIGINS", "https://panel.example.org")

	cfg, err := Process()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, "prod-host", cfg.Database.Host)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 0, cfg.Assembly.MaxProxiesPerReceiver)
	assert.Equal(t, "https://panel.example.org", cfg.GetAllowedOrigins())
}

func TestProcessRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown mode", map[string]string{"APP_MODE": "staging"}},
		{"unknown driver", map[string]string{"APP_MODE": "dev", "DEV_DB_DRIVER": "oracle"}},
		{"negative cap", map[string]string{"APP_MODE": "dev", "ASSEMBLY_MAX_PROXIES_PER_RECEIVER": "-1"}},
		{"default prod secret", map[string]string{"APP_MODE": "prod"}},
		{"non-numeric rate limit", map[string]string{"APP_MODE": "dev", "RATE_LIMIT_PER_MINUTE": "many"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Process()
			assert.Error(t, err)
		})
	}
}

func TestBuildDialector(t *testing.T) {
	for _, driver := range []string{DriverMySQL, DriverPostgres, DriverSQLite} {
		d, err := buildDialector(DatabaseConfig{Driver: driver, SQLitePath: "x.db"})
		require.NoError(t, err)
		assert.Equal(t, driver, d.Name())
	}
	_, err := buildDialector(DatabaseConfig{Driver: "mssql"})
	assert.Error(t, err)
}

func TestSeederIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	seeder := NewSeeder(db)

	require.NoError(t, seeder.Run(ctx))
	require.NoError(t, seeder.Run(ctx))

	store := repositories.NewStore(db)
	counts, err := store.Members.CountByStatus(ctx, DemoOrganizationID, []domain.MemberStatus{domain.MemberActive, domain.MemberPending})
	require.NoError(t, err)
	assert.EqualValues(t, len(demoMembers)+1, counts[domain.MemberActive])
	assert.Zero(t, counts[domain.MemberPending])

	decisions, total, err := store.Decisions.List(ctx, DemoOrganizationID, "", 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assert.Equal(t, domain.DecisionFinalized, decisions[0].Status)
}
