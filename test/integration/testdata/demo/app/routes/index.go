package routes

// Home renders the landing page.
func Home() string {
	return "<h1>Waymark Demo</h1>"
}
