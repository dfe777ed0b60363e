// Package errors provides coded, human-readable errors for the vdiff
// command line and server.
//
// Library packages (vdom, host, protocol, snapshot) return plain Go
// errors with sentinels. At the edges those errors are classified into
// an *Error carrying a stable code:
//
//   - E1xx host: a sink call failed, a session is not mounted
//   - E2xx document: a tree document is malformed or in an unknown format
//   - E3xx protocol: a frame failed to decode, handles desynced, a batch
//     sequence number was skipped
//   - E4xx config: the configuration could not be loaded or is invalid
//   - E5xx server: a snapshot store failed, a mount does not exist
//
// # Usage
//
//	err := errors.Classify(session.Render(tree), errors.CodeHostFailed).
//	    WithSource("mounts/main")
//
//	errors.PrintError(err)
//	// ERROR E100: Host mutation failed
//	//
//	//   mounts/main
//	//
//	//   Cause: vdom: Append failed: host: invalid handle: #7
//	//   ...
//
// The server uses HTTPStatus to pick a response status for a coded error.
package errors
