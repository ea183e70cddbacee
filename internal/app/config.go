package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	// Configure logging
	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		// Default based on environment
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// GetRequiredEnv fetches a required environment variable or exits if not set.
func GetRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatal().Msgf("%s environment variable is required", key)
	}
	return value
}

// GetEnvWithDefault fetches an environment variable with a default fallback.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// Settings is the external configuration of one cleaning run. The assumed
// year exists because the export's compact date form never carries one; it is
// deliberately explicit configuration, not something inferred.
type Settings struct {
	SpreadsheetID   string
	ReadRange       string
	WriteRange      string
	CredentialsFile string
	Year            int
	Location        *time.Location
}

// LoadSettings reads the run configuration from the environment.
func LoadSettings() (Settings, error) {
	spreadsheetID := GetRequiredEnv("SPREADSHEET_ID")
	readRange := GetEnvWithDefault("SPREADSHEET_RANGE", "Rewards!A:B")
	writeRange := GetEnvWithDefault("OUTPUT_RANGE", readRange)
	credsFile := GetEnvWithDefault("CREDENTIALS_FILE", "credentials.json")

	yearStr := GetEnvWithDefault("ASSUMED_YEAR", "2026")
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid ASSUMED_YEAR %q: %w", yearStr, err)
	}

	tzName := GetEnvWithDefault("TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid TIMEZONE %q: %w", tzName, err)
	}

	log.Debug().
		Str("read_range", readRange).
		Str("write_range", writeRange).
		Int("assumed_year", year).
		Str("timezone", tzName).
		Msg("Loaded settings")

	return Settings{
		SpreadsheetID:   spreadsheetID,
		ReadRange:       readRange,
		WriteRange:      writeRange,
		CredentialsFile: credsFile,
		Year:            year,
		Location:        loc,
	}, nil
}
