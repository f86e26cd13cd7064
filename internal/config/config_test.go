package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileValuesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "8080"
crm:
  domain: "test"
matching:
  fuzzy_cutoff: 0.5
  product_aliases:
    "salesforce administrator": "salesforce admin"
  stopwords:
    voucher: ["voucher", "please"]
notification:
  transport: "kafka"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "test", cfg.CRM.Domain)
	assert.Equal(t, 0.5, cfg.Matching.FuzzyCutoff)
	assert.Equal(t, 0.7, cfg.Matching.ProductCutoff, "default applies when the file omits a key")
	assert.Equal(t, "salesforce admin", cfg.Matching.ProductAliases["salesforce administrator"])
	assert.Equal(t, []string{"voucher", "please"}, cfg.Matching.Stopwords["voucher"])
	assert.Equal(t, "kafka", cfg.Notification.Transport)
	assert.Equal(t, 24, cfg.Session.TTLHours)
	assert.Equal(t, 10, cfg.LLM.Prompt.HistoryTurns)
	assert.Equal(t, "./logs/voucher_requests.log", cfg.Notification.Ledger.Path)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"8080\"\n")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("NOTIFICATION_SMTP_PASSWORD", "app-password")
	t.Setenv("SALESFORCE_USERNAME", "ada@example.com")
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("USER_ID", "005000000000001")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "app-password", cfg.Notification.SMTP.Password)
	assert.Equal(t, "ada@example.com", cfg.CRM.Username)
	assert.Equal(t, "gsk-test", cfg.LLM.APIKey)
	assert.Equal(t, "005000000000001", cfg.Employee.ID)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "smtp", cfg.Notification.Transport)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unterminated\n")
	_, err := Load(path)
	assert.Error(t, err)
}
