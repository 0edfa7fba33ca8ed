package alerter

type Config struct {
	APIURL          string `envconfig:"API_URL"`
	BotToken        string `envconfig:"BOT_TOKEN"`
	ChatID          int64  `envconfig:"CHAT_ID"`
	MessageThreadID *int64 `envconfig:"MESSAGE_THREAD_ID"`
}

// Enabled алерты уходят в Telegram только если задан токен и чат
func (c *Config) Enabled() bool {
	return c.BotToken != "" && c.ChatID != 0
}
