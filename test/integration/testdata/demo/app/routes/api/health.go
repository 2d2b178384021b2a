package api

// Health reports liveness for deploy checks.
func Health() map[string]string {
	return map[string]string{"status": "ok"}
}
