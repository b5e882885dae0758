package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultPasswordLength is the required password length for registration
// unless overridden via APP_PASSWORD_LENGTH. Zero disables the check.
const DefaultPasswordLength = 6

type Config struct {
	AppLogLevel   string
	AppPolicyPath string
	DebugEnabled  bool
	DebugDataPath string

	CognitoUserPoolID string
	CognitoClientID   string

	PasswordLength       int
	ConfirmationDelivery string

	EmailVerificationEnabled        bool
	EmailVerificationWhitelist      *[]string
	SendGridApiHost                 string
	SendGridEmailVerificationApiKey string
}

func New() (*Config, error) {
	cfg := &Config{
		AppLogLevel:                     os.Getenv("APP_LOG_LEVEL"),
		AppPolicyPath:                   os.Getenv("APP_POLICY_PATH"),
		DebugEnabled:                    os.Getenv("APP_DEBUG_ENABLED") == "true",
		DebugDataPath:                   os.Getenv("APP_DEBUG_DATA_PATH"),
		CognitoUserPoolID:               os.Getenv("COGNITO_USER_POOL_ID"),
		CognitoClientID:                 os.Getenv("COGNITO_CLIENT_ID"),
		ConfirmationDelivery:            strings.ToLower(strings.TrimSpace(os.Getenv("APP_CONFIRMATION_DELIVERY"))),
		EmailVerificationEnabled:        os.Getenv("APP_EMAIL_VERIFICATION_ENABLED") == "true",
		SendGridApiHost:                 os.Getenv("APP_SENDGRID_API_HOST"),
		SendGridEmailVerificationApiKey: os.Getenv("APP_SENDGRID_EMAIL_VERIFICATION_API_KEY"),
	}

	if cfg.CognitoUserPoolID == "" {
		return nil, fmt.Errorf("COGNITO_USER_POOL_ID is not set")
	}
	if cfg.CognitoClientID == "" {
		return nil, fmt.Errorf("COGNITO_CLIENT_ID is not set")
	}

	cfg.PasswordLength = DefaultPasswordLength
	if s := strings.TrimSpace(os.Getenv("APP_PASSWORD_LENGTH")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("APP_PASSWORD_LENGTH is invalid: %q", s)
		}
		cfg.PasswordLength = n
	}

	switch cfg.ConfirmationDelivery {
	case "":
		cfg.ConfirmationDelivery = "suppress"
	case "suppress", "resend":
	default:
		return nil, fmt.Errorf("APP_CONFIRMATION_DELIVERY must be suppress or resend, got %q", cfg.ConfirmationDelivery)
	}

	evWhitelistStr := strings.TrimSpace(os.Getenv("APP_EMAIL_VERIFICATION_WHITELIST"))
	if evWhitelistStr != "" {
		evWhitelist := strings.Split(evWhitelistStr, ",")
		for i, x := range evWhitelist {
			evWhitelist[i] = strings.ToLower(strings.TrimSpace(x))
		}
		cfg.EmailVerificationWhitelist = &evWhitelist
	}

	if cfg.SendGridApiHost == "" {
		cfg.SendGridApiHost = "https://api.sendgrid.com"
	}

	if cfg.DebugEnabled {
		cfg.AppLogLevel = "debug"
	}

	return cfg, nil
}
