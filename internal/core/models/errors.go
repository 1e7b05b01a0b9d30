// SPDX-License-Identifier: Apache-2.0

package models

import "errors"

// Errors surfaced by an update run. Callers wrap these with the failing step's
// name; use errors.Is to test for them.
var (
	ErrRemoteNotFound         = errors.New("stack not found")
	ErrRemoteAmbiguous        = errors.New("ambiguous stack result")
	ErrRemoteRejected         = errors.New("update rejected")
	ErrRemoteUnavailable      = errors.New("remote unavailable")
	ErrTemplateUnavailable    = errors.New("template unavailable")
	ErrMalformedParameterData = errors.New("malformed parameter data")
	ErrEmptyOrMissingField    = errors.New("empty or missing field")
	ErrArtifactWriteFailed    = errors.New("artifact write failed")
	ErrArtifactCopyFailed     = errors.New("artifact copy failed")
	ErrDirectoryCreateFailed  = errors.New("directory create failed")
	ErrEditorInvocationFailed = errors.New("editor invocation failed")
	ErrPollTimeout            = errors.New("timed out waiting for stack")
)
