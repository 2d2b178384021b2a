package blog

// Index lists recent posts.
func Index() string {
	return "<h1>Blog</h1>"
}
