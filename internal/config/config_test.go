package config_test

import (
	"testing"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret-0123456789")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 9.0, cfg.Payroll.WorkHoursPerDay)
	assert.Equal(t, 30.0, cfg.Payroll.DaysPerMonth)
	assert.Equal(t, "09:00", cfg.Payroll.DefaultStartTime)
	assert.Equal(t, "18:00", cfg.Payroll.DefaultEndTime)
	assert.Equal(t, 1, cfg.Leave.AnnualTypeID)
	assert.Equal(t, 2, cfg.Leave.MedicalTypeID)
	assert.Equal(t, 8.0, cfg.Statutory.EpfEmployeeRate)
	assert.Equal(t, 12.0, cfg.Statutory.EpfEmployerRate)
	assert.Equal(t, 3.0, cfg.Statutory.EtfRate)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret-0123456789")
	t.Setenv("PAYROLL_WORK_HOURS_PER_DAY", "8")
	t.Setenv("DB_HOST", "db.internal")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 8.0, cfg.Payroll.WorkHoursPerDay)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestValidate(t *testing.T) {
	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.Auth.JWTSecret = ""

		err := cfg.Validate()
		assert.ErrorContains(t, err, "jwt_secret")
	})

	t.Run("non positive work hours", func(t *testing.T) {
		cfg := validConfig()
		cfg.Payroll.WorkHoursPerDay = 0

		err := cfg.Validate()
		assert.ErrorContains(t, err, "work_hours_per_day")
	})

	t.Run("colliding leave type ids", func(t *testing.T) {
		cfg := validConfig()
		cfg.Leave.MedicalTypeID = cfg.Leave.AnnualTypeID

		err := cfg.Validate()
		assert.ErrorContains(t, err, "must differ")
	})
}

func validConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{JWTSecret: "test-secret-0123456789"},
		Payroll: config.PayrollConfig{
			WorkHoursPerDay: 9.0,
			DaysPerMonth:    30.0,
		},
		Leave: config.LeaveConfig{AnnualTypeID: 1, MedicalTypeID: 2},
	}
}
