package config

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/pem"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/simlok-project/backend/internal/utils"
)

const AppName = "simlok-api"

type Config struct {
	AppName string
	AppPort string
	AppUrl  string

	// Database
	DBUrl string

	// Auth
	RSAPrivateKey *rsa.PrivateKey
	RSAPublicKey  *rsa.PublicKey
	TokenTTL      time.Duration

	// QR token signing
	QrSigningSecret []byte

	// All civil-day decisions (validity windows, duplicate-scan days)
	// are made in this timezone, never server-local time.
	CivilTimezone *time.Location

	// Verify endpoint rate budget
	VerifyRateLimit  int
	VerifyRateWindow time.Duration

	// Notifications (optional)
	SendGridAPIKey    string
	SendGridFromEmail string
}

func LoadConfig() *Config {
	utils.Logger.Info("Loading config for app: ", AppName)

	appPort := mustEnv("APP_PORT")
	appUrl := mustEnv("APP_URL")
	dbURL := mustEnv("DB_URL")

	privPEM := mustDecodeBase64("RSA_PRIVATE_KEY_BASE64")
	if block, _ := pem.Decode(privPEM); block == nil {
		utils.Logger.Fatal("Failed to decode PEM block for private key")
	}
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA private key")
	}

	pubPEM := mustDecodeBase64("RSA_PUBLIC_KEY_BASE64")
	if block, _ := pem.Decode(pubPEM); block == nil {
		utils.Logger.Fatal("Failed to decode PEM block for public key")
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}

	qrSecret := mustEnv("QR_SIGNING_SECRET")
	if len(qrSecret) < 32 {
		utils.Logger.Fatal("QR_SIGNING_SECRET must be at least 32 bytes")
	}

	tzName := os.Getenv("CIVIL_TIMEZONE")
	if tzName == "" {
		tzName = "Asia/Jakarta"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		utils.Logger.WithError(err).Fatalf("Unknown CIVIL_TIMEZONE %q", tzName)
	}

	tokenTTL := time.Duration(envInt("TOKEN_TTL_HOURS", 8)) * time.Hour
	rateLimit := envInt("VERIFY_RATE_LIMIT", 30)
	rateWindow := time.Duration(envInt("VERIFY_RATE_WINDOW_SECONDS", 60)) * time.Second

	sgFrom := os.Getenv("SENDGRID_FROM_EMAIL")
	if sgFrom == "" {
		sgFrom = "no-reply@simlok.id"
	}

	return &Config{
		AppName:           AppName,
		AppPort:           appPort,
		AppUrl:            appUrl,
		DBUrl:             dbURL,
		RSAPrivateKey:     privKey,
		RSAPublicKey:      pubKey,
		TokenTTL:          tokenTTL,
		QrSigningSecret:   []byte(qrSecret),
		CivilTimezone:     loc,
		VerifyRateLimit:   rateLimit,
		VerifyRateWindow:  rateWindow,
		SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		SendGridFromEmail: sgFrom,
	}
}

func mustEnv(name string) string {
	v := os.Getenv(name)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", name)
	}
	return v
}

func mustDecodeBase64(name string) []byte {
	raw, err := base64.StdEncoding.DecodeString(mustEnv(name))
	if err != nil {
		utils.Logger.WithError(err).Fatalf("%s is not valid base64", name)
	}
	return raw
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		utils.Logger.Warnf("Invalid %s %q, defaulting to %d", name, v, def)
		return def
	}
	return n
}
