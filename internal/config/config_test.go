package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/llm"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func isolated(t *testing.T, env map[string]string) Options {
	t.Helper()
	dir := t.TempDir()
	return Options{
		ConfigPath: filepath.Join(dir, "missing.yaml"),
		EnvFile:    filepath.Join(dir, "missing.env"),
		Getenv:     envMap(env),
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(isolated(t, map[string]string{"TRIPBOT_DB": "/tmp/x.db"}))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 30000, cfg.LLM.TimeoutMs)
	assert.Equal(t, 40, cfg.Dialogue.HistoryWindow)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30, cfg.Server.SessionTTLMinutes)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, domain.LanguageEnglish, cfg.LanguageValue())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
language: chinese
db_path: /data/trips.db
llm:
  provider: ollama
  model: qwen2.5
  timeout_ms: 5000
  task_timeouts_ms:
    itinerary: 90000
hotels:
  max_pages: 3
`), 0o600))

	cfg, err := Load(Options{
		ConfigPath: path,
		EnvFile:    filepath.Join(dir, "none.env"),
		Getenv: envMap(map[string]string{
			"TRIPBOT_LLM_MODEL":              "llama3.1",
			"TRIPBOT_LLM_EXTRACT_TIMEOUT_MS": "8000",
			"TRIPBOT_LLM_MAX_RETRIES":        "not-a-number",
			"TRIPBOT_HISTORY_WINDOW":         "12",
			"RAPIDAPI_KEY":                   "rk",
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.LanguageChinese, cfg.LanguageValue())
	assert.Equal(t, "/data/trips.db", cfg.DBPath)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "llama3.1", cfg.LLM.Model)
	assert.Equal(t, 1, cfg.LLM.MaxRetries)
	assert.Equal(t, 12, cfg.Dialogue.HistoryWindow)
	assert.Equal(t, 3, cfg.Hotels.MaxPages)
	assert.Equal(t, "rk", cfg.Hotels.APIKey)

	lc := cfg.LLMClientConfig()
	assert.Equal(t, llm.ProviderOllama, lc.Provider)
	assert.Equal(t, 5000, lc.TimeoutMs)
	assert.Equal(t, 90000, lc.TaskTimeout(llm.TaskItinerary))
	assert.Equal(t, 8000, lc.TaskTimeout(llm.TaskExtract))
	assert.Equal(t, 5000, lc.TaskTimeout(llm.TaskChat))
	assert.Equal(t, 0.3, lc.Tasks[llm.TaskExtract].Temperature)
}

func TestLoad_ProviderKeyFallback(t *testing.T) {
	cfg, err := Load(isolated(t, map[string]string{
		"TRIPBOT_DB":     "x.db",
		"OPENAI_API_KEY": "sk-openai",
		"GEMINI_API_KEY": "g-key",
	}))
	require.NoError(t, err)
	assert.Equal(t, "sk-openai", cfg.LLM.APIKey)

	cfg, err = Load(isolated(t, map[string]string{
		"TRIPBOT_DB":           "x.db",
		"TRIPBOT_LLM_PROVIDER": "gemini",
		"OPENAI_API_KEY":       "sk-openai",
		"GEMINI_API_KEY":       "g-key",
	}))
	require.NoError(t, err)
	assert.Equal(t, "g-key", cfg.LLM.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLMClientConfig().Model)

	cfg, err = Load(isolated(t, map[string]string{
		"TRIPBOT_DB":          "x.db",
		"TRIPBOT_LLM_API_KEY": "explicit",
		"OPENAI_API_KEY":      "sk-openai",
	}))
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.LLM.APIKey)
}

func TestLoad_DotEnvFile(t *testing.T) {
	const key = "TRIPBOT_TEST_DOTENV_MODEL"
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(key+"=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv(key) })

	cfg, err := Load(Options{ConfigPath: filepath.Join(dir, "none.yaml"), EnvFile: envFile})
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv", os.Getenv(key))
	assert.NotEmpty(t, cfg.DBPath)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [unclosed"), 0o600))

	_, err := Load(Options{ConfigPath: path, EnvFile: filepath.Join(dir, "none"), Getenv: envMap(nil)})
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.LLM.Provider = "anthropic"
	assert.ErrorContains(t, cfg.Validate(), "unknown llm provider")

	cfg = Default()
	cfg.Hotels.MaxPages = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Dialogue.HistoryWindow = -1
	assert.NoError(t, cfg.Validate())
	cfg.Dialogue.HistoryWindow = -2
	assert.ErrorContains(t, cfg.Validate(), "history_window")
}

func TestLoad_HistoryWindowSendAll(t *testing.T) {
	cfg, err := Load(isolated(t, map[string]string{
		"TRIPBOT_HISTORY_WINDOW":      "-1",
		"TRIPBOT_SESSION_TTL_MINUTES": "5",
	}))
	require.NoError(t, err)
	assert.Equal(t, -1, cfg.Dialogue.HistoryWindow)
	assert.Equal(t, 5, cfg.Server.SessionTTLMinutes)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Language = "chinese"
	cfg.LLM.Model = "gpt-4o"
	require.NoError(t, cfg.Save(path))

	got, err := Load(Options{ConfigPath: path, EnvFile: filepath.Join(t.TempDir(), "none"), Getenv: envMap(map[string]string{"TRIPBOT_DB": "x.db"})})
	require.NoError(t, err)
	assert.Equal(t, "chinese", got.Language)
	assert.Equal(t, "gpt-4o", got.LLM.Model)
}
