package aem

import "time"

// Config holds connection settings for the author and publish instances.
type Config struct {
	// AuthorURL is the base URL of the author instance (source of truth).
	AuthorURL string `mapstructure:"author_url" default:"http://localhost:4502"`
	// PublishURL is the base URL of the publish instance (mirror).
	PublishURL string `mapstructure:"publish_url" default:"http://localhost:4503"`
	// User is the account used for every request.
	User string `mapstructure:"user" default:"admin"`
	// Password is the password of User.
	Password string `mapstructure:"password" default:""`
	// Proxy is an optional HTTP(S) proxy URL. Setting it also disables TLS verification.
	Proxy string `mapstructure:"proxy" default:""`
	// AllowInsecure disables TLS certificate verification.
	AllowInsecure bool `mapstructure:"allow_insecure" default:"false"`
	// TimeoutSeconds bounds connection setup and each request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxRetries is the number of extra attempts for failed GET requests.
	MaxRetries int `mapstructure:"max_retries" default:"2"`
	// RetryDelayMillis is the first backoff delay between GET attempts.
	RetryDelayMillis int `mapstructure:"retry_delay_ms" default:"500"`
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) backoff() BackoffConfig {
	return BackoffConfig{
		InitialDelay: time.Duration(c.RetryDelayMillis) * time.Millisecond,
		Multiplier:   2,
		MaxDelay:     10 * time.Second,
	}
}
