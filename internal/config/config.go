package config

import (
	"os"
	"strconv"
	"strings"
)

// Vision backends. Any other VISION_BACKEND value resolves to BackendMoondream.
const (
	BackendMoondream = "moondream"
	BackendClaude    = "claude"
	BackendOllama    = "ollama"
)

type Config struct {
	ListenAddr    string
	VisionBackend string
	// RequestedBackend is VISION_BACKEND as given, before resolution.
	RequestedBackend string
	MoondreamAPIKey  string
	MoondreamURL     string
	ClaudeAPIKey     string
	ClaudeModel      string
	OllamaHost       string
	OllamaModel      string
	MaxUploadMB      int64
	LogLevel         string
	LogFile          string
}

func Load() *Config {
	requested := getEnv("VISION_BACKEND", BackendMoondream)
	return &Config{
		ListenAddr:       getEnv("LISTEN_ADDR", ":8080"),
		VisionBackend:    resolveBackend(requested),
		RequestedBackend: requested,
		MoondreamAPIKey:  getEnv("MOONDREAM_API_KEY", ""),
		MoondreamURL:     getEnv("MOONDREAM_API_URL", "https://api.moondream.ai/v1"),
		ClaudeAPIKey:     getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:      getEnv("CLAUDE_MODEL", "claude-opus-4-6"),
		OllamaHost:       getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:      getEnv("OLLAMA_MODEL", "moondream"),
		MaxUploadMB:      getEnvInt("MAX_UPLOAD_MB", 20),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          getEnv("LOG_FILE", ""),
	}
}

// Credential returns the environment variable name and value of the API key
// the selected vision backend needs. Backends that run locally return
// ("", "").
func (c *Config) Credential() (name, value string) {
	switch c.VisionBackend {
	case BackendClaude:
		return "CLAUDE_API_KEY", c.ClaudeAPIKey
	case BackendOllama:
		return "", ""
	default:
		return "MOONDREAM_API_KEY", c.MoondreamAPIKey
	}
}

// CredentialMissing reports whether the selected backend needs a credential
// that is empty or unset.
func (c *Config) CredentialMissing() bool {
	name, value := c.Credential()
	return name != "" && value == ""
}

// BackendFallback reports whether VISION_BACKEND named no supported backend
// and VisionBackend fell back to BackendMoondream.
func (c *Config) BackendFallback() bool {
	return normaliseBackend(c.RequestedBackend) != c.VisionBackend
}

func normaliseBackend(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// resolveBackend maps a VISION_BACKEND value to a supported backend name.
func resolveBackend(s string) string {
	switch b := normaliseBackend(s); b {
	case BackendClaude, BackendOllama:
		return b
	default:
		return BackendMoondream
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int64) int64 {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}
