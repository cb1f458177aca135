package cmd

// Config carries the process configuration loaded from the environment.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaBrokers         string
	KafkaTransitionTopic string

	// Offer protocol tuning
	OfferWindowSeconds int
	OfferMaxAttempts   int
	OfferAnyDriver     bool

	// Comma-separated driver UUIDs for the roster candidate pool.
	DriverRoster string
}
