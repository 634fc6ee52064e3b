package llm

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskChat        TaskType = "chat"
	TaskExtract     TaskType = "extract"
	TaskDescribe    TaskType = "describe"
	TaskAcknowledge TaskType = "acknowledge"
	TaskItinerary   TaskType = "itinerary"
)

// Provider names a completion backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
	ProviderGemini Provider = "gemini"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Provider   Provider
	APIKey     string
	Endpoint   string // base URL; empty uses the provider default
	Model      string
	LogCalls   bool
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults. Sampling
// parameters per task match what the assistant has always sent.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:   ProviderOpenAI,
		Model:      "gpt-4-turbo",
		TimeoutMs:  30000,
		MaxRetries: 1,
		Tasks:      defaultTasks(),
	}
}

func defaultTasks() map[TaskType]TaskConfig {
	return map[TaskType]TaskConfig{
		TaskChat:        {Temperature: 0.7, MaxTokens: 600},
		TaskExtract:     {Temperature: 0.3, MaxTokens: 600},
		TaskDescribe:    {Temperature: 0.7, MaxTokens: 1200, TimeoutMs: 45000},
		TaskAcknowledge: {Temperature: 0.7, MaxTokens: 450, TimeoutMs: 20000},
		TaskItinerary:   {Temperature: 0.7, MaxTokens: 4000, TimeoutMs: 120000},
	}
}

// DefaultModel returns the model used when none is configured for p.
func DefaultModel(p Provider) string {
	switch p {
	case ProviderOllama:
		return "llama3.2"
	case ProviderGemini:
		return "gemini-2.0-flash"
	default:
		return "gpt-4-turbo"
	}
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// SetTaskTimeout overrides the timeout for one task.
func (c *LLMConfig) SetTaskTimeout(task TaskType, ms int) {
	if ms <= 0 {
		return
	}
	if c.Tasks == nil {
		c.Tasks = defaultTasks()
	}
	tc := c.Tasks[task]
	tc.TimeoutMs = ms
	c.Tasks[task] = tc
}
