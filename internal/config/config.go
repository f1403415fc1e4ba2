package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port               string `envconfig:"PORT" default:"8080"`
	Environment        string `envconfig:"ENV" default:"development"`
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	JWTSecret          string `envconfig:"JWT_SECRET"`

	// When set, the JWT secret is fetched from Google Secret Manager at
	// startup instead of JWT_SECRET. Requires GCP_PROJECT_ID.
	JWTSecretName string `envconfig:"JWT_SECRET_NAME"`
	GCPProjectID  string `envconfig:"GCP_PROJECT_ID"`

	// S3-compatible storage for lesson media (pdf and video assets).
	S3URL       string `envconfig:"S3_URL"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"lesson-assets"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`

	// Pub/Sub event publishing settings
	EventsTopic        string `envconfig:"EVENTS_TOPIC" default:"tsinda_events"`
	PubSubEmulatorHost string `envconfig:"PUBSUB_EMULATOR_HOST"`

	// Contact form relay settings
	ContactRelayURL string `envconfig:"CONTACT_RELAY_URL" default:"https://formspree.io/f/xdknkkqz"`

	// Mock payment processor settings
	PaymentProcessingDelayMs int `envconfig:"PAYMENT_PROCESSING_DELAY_MS" default:"2000"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
