package cmd

type Config struct {
	HTTPPort          string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSslMode         string
	KafkaHost         string
	KafkaEventsTopic  string
	RedisHost         string
	CatalogCacheTTL   string
	ReminderSchedule  string
	ReminderThreshold string
}
