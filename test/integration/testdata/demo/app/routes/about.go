package routes

// About renders the about page.
func About() string {
	return "<h1>About</h1>"
}
