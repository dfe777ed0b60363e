package errors

import "net/http"

// Registered error codes.
const (
	CodeHostFailed      = "E100"
	CodeNotMounted      = "E101"
	CodeInvalidDocument = "E200"
	CodeUnknownFormat   = "E201"
	CodeDecode          = "E300"
	CodeDesync          = "E301"
	CodeSequenceGap     = "E302"
	CodeConfigLoad      = "E400"
	CodeConfigInvalid   = "E401"
	CodeSnapshotFailed  = "E500"
	CodeUnknownMount    = "E501"
	CodeNoSnapshot      = "E502"
	CodeBadRequest      = "E503"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	Status     int
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Host Errors (E100-E199)
	// ============================================

	CodeHostFailed: {
		Category: CategoryHost,
		Message:  "Host mutation failed",
		Detail:   "The mutation sink rejected a call. The live tree may be partially updated and the previous tree is still considered current.",
		Status:   http.StatusInternalServerError,
	},
	CodeNotMounted: {
		Category:   CategoryHost,
		Message:    "Session not mounted",
		Detail:     "Render was called on a session that has no sink.",
		Suggestion: "Create sessions with vdom.NewSession(sink, root).",
		Status:     http.StatusInternalServerError,
	},

	// ============================================
	// Document Errors (E200-E299)
	// ============================================

	CodeInvalidDocument: {
		Category:   CategoryDocument,
		Message:    "Invalid tree document",
		Detail:     "A tree document node must have either a tag (with optional children) or a text value, or be null for an empty tree.",
		Suggestion: `Use {"tag": "div", "children": [{"text": "hi"}]}.`,
		Status:     http.StatusBadRequest,
	},
	CodeUnknownFormat: {
		Category:   CategoryDocument,
		Message:    "Unsupported tree format",
		Detail:     "Tree documents are read as JSON or YAML.",
		Suggestion: "Use a .json, .yaml or .yml file, or set Content-Type to application/json or application/yaml.",
		Status:     http.StatusUnsupportedMediaType,
	},

	// ============================================
	// Protocol Errors (E300-E399)
	// ============================================

	CodeDecode: {
		Category: CategoryProtocol,
		Message:  "Protocol decode failed",
		Detail:   "A frame or mutation batch was truncated, malformed or exceeded a decoder limit.",
		Status:   http.StatusBadRequest,
	},
	CodeDesync: {
		Category:   CategoryProtocol,
		Message:    "Protocol desync",
		Detail:     "The receiving host issued a different handle than the sender recorded, so the two trees no longer match.",
		Suggestion: "Reconnect with since=0 to replay the mount from a fresh host.",
		Status:     http.StatusConflict,
	},
	CodeSequenceGap: {
		Category:   CategoryProtocol,
		Message:    "Batch sequence gap",
		Detail:     "A batch arrived whose sequence number is not the next one expected.",
		Suggestion: "Reconnect with since=0 to replay the mount from a fresh host.",
		Status:     http.StatusConflict,
	},

	// ============================================
	// Config Errors (E400-E499)
	// ============================================

	CodeConfigLoad: {
		Category: CategoryConfig,
		Message:  "Failed to load configuration",
		Detail:   "The configuration file could not be read or parsed.",
		Status:   http.StatusInternalServerError,
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration was parsed but contains invalid values.",
		Status:   http.StatusInternalServerError,
	},

	// ============================================
	// Server Errors (E500-E599)
	// ============================================

	CodeSnapshotFailed: {
		Category: CategoryServer,
		Message:  "Snapshot store failed",
		Detail:   "The snapshot could not be written to or read from the configured store.",
		Status:   http.StatusBadGateway,
	},
	CodeUnknownMount: {
		Category:   CategoryServer,
		Message:    "Unknown mount",
		Detail:     "No mount with this id exists.",
		Suggestion: "Create it first with PUT /mounts/{id}.",
		Status:     http.StatusNotFound,
	},
	CodeNoSnapshot: {
		Category:   CategoryServer,
		Message:    "No snapshot",
		Detail:     "The snapshot store holds nothing for this mount.",
		Suggestion: "Export one with POST /mounts/{id}/snapshot.",
		Status:     http.StatusNotFound,
	},
	CodeBadRequest: {
		Category: CategoryServer,
		Message:  "Invalid request",
		Detail:   "A path or query parameter is malformed.",
		Status:   http.StatusBadRequest,
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

// HTTPStatus returns the HTTP status registered for err's code, or 500.
func HTTPStatus(err error) int {
	if t, ok := registry[Code(err)]; ok && t.Status != 0 {
		return t.Status
	}
	return http.StatusInternalServerError
}
