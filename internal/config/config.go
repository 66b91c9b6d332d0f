package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AuthMode define cómo se autentican los requests.
type AuthMode string

const (
	AuthModeDev     AuthMode = "dev"     // header X-Debug-User-ID, sin verifier
	AuthModeJWT     AuthMode = "jwt"     // HS256 local (JWT_SECRET)
	AuthModeGateway AuthMode = "gateway" // gateway de identidad por HTTP
)

// Config agrupa la configuración de runtime. Cada campo sale de una env
// var; los defaults permiten levantar el servicio sin configurar nada
// (modo dev: repos in-memory, auth por header).
type Config struct {
	Port    string
	AppName string

	DBDSN string // vacío => repos in-memory

	LogLevel  string
	LogFormat string

	// Vigencia de los tokens QR.
	TokenTTL time.Duration

	AuthMode       AuthMode
	JWTSecret      string
	AuthGatewayURL string
	AuthGatewayKey string

	NotifyWebhookURL string
}

// Load lee .env (si existe) y después las env vars. A diferencia de otros
// servicios acá nada es obligatorio: el binario arranca en modo dev con
// defaults y recién exige valores cuando se elige un modo que los necesita.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:    getenv("PORT", "8080"),
		AppName: getenv("APP_NAME", "maternal-booklet"),

		DBDSN: os.Getenv("DB_DSN"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "text"),

		TokenTTL: time.Duration(getenvInt("QR_EXPIRY_MINUTES", 10)) * time.Minute,

		AuthMode:       AuthMode(strings.ToLower(getenv("AUTH_MODE", string(AuthModeDev)))),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AuthGatewayURL: os.Getenv("AUTH_GATEWAY_URL"),
		AuthGatewayKey: os.Getenv("AUTH_GATEWAY_KEY"),

		NotifyWebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
