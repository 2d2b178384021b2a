// Package errors provides structured, actionable error messages for Waymark.
//
// Every registered error carries a unique code that maps to a short
// message, a longer explanation and a documentation URL, so failures in
// route scanning, manifest generation and configuration loading surface
// with enough context to act on.
//
// # Error Categories
//
// Errors are organized into categories:
//   - manifest: route discovery and manifest assembly failures
//   - routes: route-directory scanning errors
//   - config: waymark.json loading and validation errors
//   - server: dev server and file watcher errors
//   - cli: command-line usage errors
//   - export: deployment artifact errors
//
// # Error Codes
//
// Each error has a unique code (e.g., "E120") that maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation URL
//
// # Usage
//
//	err := errors.New("E120").
//	    WithDetail("Failed to parse waymark.json: unexpected end of input").
//	    WithSuggestion("Check that waymark.json is valid JSON")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E120: Invalid configuration file
//	//
//	//   Failed to parse waymark.json: unexpected end of input
//	//
//	//   Hint: Check that waymark.json is valid JSON
//	//
//	//   Learn more: https://waymark.dev/docs/errors/E120
package errors
