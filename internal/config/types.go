package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Slack         SlackConfig
	Turso         TursoConfig
	ProjectID     string
	SessionSecret string
	// GameServerAddr is the game server address announced in duel
	// messages, e.g. "18.228.228.44:3827".
	GameServerAddr string
	// AdminUserIDs are the Slack user IDs allowed to run mutating commands.
	AdminUserIDs []string
}
type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
