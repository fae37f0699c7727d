package app

import (
	"github.com/markoori/variant-backend/internal/platform/envutil"
)

type Config struct {
	Port            string
	AdminSecret     string
	AdminSecretHash string
}

func LoadConfig() Config {
	return Config{
		Port:            envutil.String("PORT", "5000"),
		AdminSecret:     envutil.String("ADMIN_SECRET", ""),
		AdminSecretHash: envutil.String("ADMIN_SECRET_HASH", ""),
	}
}
