package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// Default allowed origins for local frontend development
var defaultOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5500",
	"http://127.0.0.1:5500",
}

var AllowedOrigins = initAllowedOrigins()

func initAllowedOrigins() []string {
	origins := append([]string(nil), defaultOrigins...)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		for _, origin := range strings.Split(allowedOrigins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
