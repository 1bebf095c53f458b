package config

// GetAuthSkipperPaths returns /api paths that are served without authentication.
func GetAuthSkipperPaths() []string {
	// Plot listings and batch plotting are public; refreshing descriptions is not.
	return []string{"/api/plots", "/api/plots/descriptions", "/api/plots/batch"}
}
