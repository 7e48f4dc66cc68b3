package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"BOT_TOKEN": "123:abc",
		"ADMIN_ID":  "999",
	}
}

func load(t *testing.T, env map[string]string) (Config, error) {
	t.Helper()
	return LoadWith(context.Background(), envconfig.MapLookuper(env))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(t, baseEnv())
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, int64(999), cfg.AdminID)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ModeWebhook, cfg.Mode)
	assert.Equal(t, 15*time.Second, cfg.TelegramTimeout)
	assert.Equal(t, 60*time.Second, cfg.UpdateTimeout)
	assert.Equal(t, "/metrics", cfg.MetricsPath)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "quest.db", cfg.DB.Path)
	assert.Equal(t, "quest.db", cfg.DSN())
	assert.Equal(t, 5*time.Second, cfg.DB.Timeout)
	assert.Equal(t, 7, cfg.Quiz.Questions)
	assert.Equal(t, 5, cfg.Quiz.Options)
	assert.Equal(t, 1, cfg.Quiz.ButtonColumns)
	assert.Zero(t, cfg.Quiz.FollowupDelay)
	assert.Equal(t, 2*time.Second, cfg.Cooldown.Start)
	assert.Equal(t, 3*time.Second, cfg.Cooldown.Answer)
}

func TestLoadOverrides(t *testing.T) {
	env := baseEnv()
	env["MODE"] = "polling"
	env["QUIZ_QUESTIONS"] = "5"
	env["QUIZ_OPTIONS"] = "4"
	env["QUIZ_BUTTON_COLUMNS"] = "2"
	env["FOLLOWUP_DELAY"] = "120s"
	env["DB_DRIVER"] = "postgres"
	env["DATABASE_URL"] = "postgres://quiz@localhost/quiz?sslmode=disable"

	cfg, err := load(t, env)
	require.NoError(t, err)
	assert.Equal(t, ModePolling, cfg.Mode)
	assert.Equal(t, 5, cfg.Quiz.Questions)
	assert.Equal(t, 4, cfg.Quiz.Options)
	assert.Equal(t, 2, cfg.Quiz.ButtonColumns)
	assert.Equal(t, 2*time.Minute, cfg.Quiz.FollowupDelay)
	assert.Equal(t, "postgres://quiz@localhost/quiz?sslmode=disable", cfg.DSN())
}

func TestLoadExpandsHome(t *testing.T) {
	env := baseEnv()
	env["DB_PATH"] = "~/quiz/quest.db"

	cfg, err := load(t, env)
	require.NoError(t, err)
	assert.NotContains(t, cfg.DB.Path, "~")
	assert.Contains(t, cfg.DB.Path, "quiz/quest.db")
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"missing token":      {"ADMIN_ID": "1"},
		"missing admin":      {"BOT_TOKEN": "x"},
		"no questions":       {"QUIZ_QUESTIONS": "0"},
		"single option":      {"QUIZ_OPTIONS": "1"},
		"no columns":         {"QUIZ_BUTTON_COLUMNS": "0"},
		"unknown mode":       {"MODE": "socket"},
		"unknown driver":     {"DB_DRIVER": "mysql"},
		"postgres no url":    {"DB_DRIVER": "postgres"},
		"bad admin id":       {"ADMIN_ID": "admin"},
		"negative follow-up": {"FOLLOWUP_DELAY": "-1s"},
	}
	for name, overrides := range tests {
		t.Run(name, func(t *testing.T) {
			env := baseEnv()
			if name == "missing token" || name == "missing admin" {
				env = map[string]string{}
			}
			for k, v := range overrides {
				env[k] = v
			}
			_, err := load(t, env)
			assert.Error(t, err)
		})
	}
}

func TestSetupLogging(t *testing.T) {
	prev := log.GetLevel()
	t.Cleanup(func() { log.SetLevel(prev) })

	require.NoError(t, SetupLogging("debug"))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.Error(t, SetupLogging("loud"))
}
