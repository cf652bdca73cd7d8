package errors

// Registered error codes.
const (
	CodeStructural    = "V001"
	CodeMissingLive   = "V002"
	CodeMissingParent = "V003"
	CodeInvalidTree   = "V010"
	CodeInvalidConfig = "V020"
	CodeUsage         = "V030"
	CodeTransport     = "V040"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Reconciliation Errors (V001-V009)
	// ============================================

	CodeStructural: {
		Category: CategoryStructure,
		Message:  "Malformed node",
		Detail:   "The node's shape violates the text/element rules.",
	},
	CodeMissingLive: {
		Category: CategoryLive,
		Message:  "Missing live node",
		Detail:   "An update was attempted on a node that has no live counterpart.",
	},
	CodeMissingParent: {
		Category: CategoryLive,
		Message:  "Render root has no parent",
		Detail:   "Render must be called with a live root that is attached to a parent.",
	},

	// ============================================
	// Input Errors (V010-V039)
	// ============================================

	CodeInvalidTree: {
		Category: CategoryTree,
		Message:  "Invalid tree description",
		Detail:   "The tree file could not be decoded into virtual nodes.",
	},
	CodeInvalidConfig: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "vtree.json contains an invalid value.",
	},
	CodeUsage: {
		Category: CategoryCLI,
		Message:  "Invalid usage",
		Detail:   "The command was invoked with invalid arguments.",
	},

	// ============================================
	// Transport Errors (V040-V049)
	// ============================================

	CodeTransport: {
		Category: CategoryTransport,
		Message:  "Mirror transport failure",
		Detail:   "A mirror client connection failed.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
