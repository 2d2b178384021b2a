package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Manifest Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryManifest,
		Message:  "Route discovery failed",
		Detail:   "A route provider failed while resolving its children or pathname. The manifest cannot be generated from a partial route set.",
		DocURL:   "https://waymark.dev/docs/errors/E001",
	},
	"E002": {
		Category: CategoryManifest,
		Message:  "Build manifest template missing",
		Detail:   "The embedded buildManifest.js template could not be loaded. This indicates a broken installation, not a project problem.",
		DocURL:   "https://waymark.dev/docs/errors/E002",
	},
	"E003": {
		Category: CategoryManifest,
		Message:  "Manifest serialization failed",
		Detail:   "The build manifest could not be serialized. This usually means the rewrites value in waymark.json is not valid JSON.",
		DocURL:   "https://waymark.dev/docs/errors/E003",
	},

	// ============================================
	// Routing Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryRoutes,
		Message:  "Routes directory not found",
		Detail:   "The configured routes directory does not exist.",
		DocURL:   "https://waymark.dev/docs/errors/E100",
	},
	"E101": {
		Category: CategoryRoutes,
		Message:  "Route scan failed",
		Detail:   "The routes directory could not be scanned for route files.",
		DocURL:   "https://waymark.dev/docs/errors/E101",
	},

	// ============================================
	// Configuration Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "waymark.json exists but could not be read or parsed.",
		DocURL:   "https://waymark.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Configuration write failed",
		Detail:   "waymark.json could not be written.",
		DocURL:   "https://waymark.dev/docs/errors/E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "The configured port is outside the valid range.",
		DocURL:   "https://waymark.dev/docs/errors/E122",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Invalid rewrites",
		Detail:   "The rewrites value in waymark.json must be a JSON object.",
		DocURL:   "https://waymark.dev/docs/errors/E123",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Project already exists",
		Detail:   "The target directory already contains a waymark.json.",
		DocURL:   "https://waymark.dev/docs/errors/E140",
	},
	"E141": {
		Category: CategoryCLI,
		Message:  "Not a Waymark project",
		Detail:   "No waymark.json was found in this directory or any parent directory.",
		DocURL:   "https://waymark.dev/docs/errors/E141",
	},
	"E147": {
		Category: CategoryCLI,
		Message:  "Invalid project name",
		Detail:   "The project name cannot be used as a directory name.",
		DocURL:   "https://waymark.dev/docs/errors/E147",
	},

	// ============================================
	// Server Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryServer,
		Message:  "Dev server failed to start",
		Detail:   "The development server could not bind its address. Another process may already be using the port.",
		DocURL:   "https://waymark.dev/docs/errors/E160",
	},
	"E161": {
		Category: CategoryServer,
		Message:  "File watcher failed",
		Detail:   "The file watcher could not observe the configured paths.",
		DocURL:   "https://waymark.dev/docs/errors/E161",
	},

	// ============================================
	// Export Errors (E180-E199)
	// ============================================

	"E180": {
		Category: CategoryExport,
		Message:  "Manifest export failed",
		Detail:   "The generated manifests could not be written to the output directory.",
		DocURL:   "https://waymark.dev/docs/errors/E180",
	},
}

// Registered reports whether a code exists in the registry.
func Registered(code string) bool {
	_, ok := registry[code]
	return ok
}
