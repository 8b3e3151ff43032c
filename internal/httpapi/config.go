package httpapi

// maxUploadBytes caps request bodies, uploads included. Default 50 MiB.
var maxUploadBytes int64 = 50 << 20

// SetMaxUploadBytes allows configuring the maximum request body size.
func SetMaxUploadBytes(n int64) {
	if n <= 0 {
		maxUploadBytes = 50 << 20
		return
	}
	maxUploadBytes = n
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
