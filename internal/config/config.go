package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cloudlab-go/internal/naming"
)

// Config is resolved once per process from the environment.
type Config struct {
	Environment string
	LogLevel    string

	AWSRegion  string
	AWSProfile string

	// TranscriptBucket receives <job>_Output.txt objects.
	TranscriptBucket string
	LanguageCode     string
	MediaFormat      string
	JobNameMaxLen    int

	HTTPTimeout    time.Duration
	WaitMaxElapsed time.Duration
	ListenAddr     string
}

// FromEnv reads the process environment. Call godotenv.Load before this to pick up a .env file.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Environment:      os.Getenv("ENVIRONMENT"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		AWSRegion:        os.Getenv("AWS_REGION"),
		AWSProfile:       os.Getenv("AWS_PROFILE"),
		TranscriptBucket: strings.TrimSpace(os.Getenv("TRANSCRIPT_BUCKET")),
		LanguageCode:     getenv("LANGUAGE_CODE", "en-US"),
		MediaFormat:      getenv("MEDIA_FORMAT", "mp3"),
		ListenAddr:       getenv("LISTEN_ADDR", ":8080"),
	}

	var err error
	if cfg.JobNameMaxLen, err = intEnv("JOB_NAME_MAX_LEN", naming.DefaultJobNameLen); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = durationEnv("HTTP_TIMEOUT", 12*time.Second); err != nil {
		return nil, err
	}
	if cfg.WaitMaxElapsed, err = durationEnv("WAIT_MAX_ELAPSED", 10*time.Minute); err != nil {
		return nil, err
	}

	if cfg.JobNameMaxLen < 1 || cfg.JobNameMaxLen > naming.MaxJobNameLen {
		return nil, fmt.Errorf("JOB_NAME_MAX_LEN must be between 1 and %d, got %d", naming.MaxJobNameLen, cfg.JobNameMaxLen)
	}
	return cfg, nil
}

// RequireBucket fails when no transcript bucket is configured.
func (c *Config) RequireBucket() error {
	if c.TranscriptBucket == "" {
		return errors.New("TRANSCRIPT_BUCKET not set")
	}
	return nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
