package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/chatdesk",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		API: APIConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 120,
			Endpoints: EndpointsConfig{
				Models:     "/api/llm/models",
				Chat:       "/api/llm/chat",
				RAGProcess: "/api/llm/rag/process",
				RAGQuery:   "/api/llm/rag/query",
				Login:      "/api/auth/login",
				Register:   "/api/auth/register",
				Me:         "/api/auth/me",
			},
		},
		Security: SecurityConfig{
			Method: SecurityNone,
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# chatdesk System Configuration
# Location: ~/.config/chatdesk/settings.toml
# This file uses TOML format: https://toml.io

# Directory where the login session and user config are stored
data_directory = "~/.local/share/chatdesk"
`
}

func GenerateUserConfigTemplate() string {
	return `# chatdesk User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[api]
# Backend URL
base_url = "http://localhost:8000"

# Transport timeout for a single request
timeout_seconds = 120

[api.endpoints]
models = "/api/llm/models"
chat = "/api/llm/chat"
rag_process = "/api/llm/rag/process"
rag_query = "/api/llm/rag/query"
login = "/api/auth/login"
register = "/api/auth/register"
me = "/api/auth/me"

[chat]
# Model for new conversations. Leave empty to use the server default.
default_model = ""

# System instruction sent ahead of every conversation (optional)
# Example: "You are a helpful coding assistant."
default_system_prompt = ""

# Forwarded verbatim as the "options" object of every chat request
[chat.options]
# temperature = 0.7

[security]
# How the stored access token is protected: "none" or "ssh_key"
method = "none"
# ssh_key_path = "~/.ssh/id_ed25519"
`
}
