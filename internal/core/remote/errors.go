// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
	"github.com/kusari-oss/cfnupd/internal/core/models"
)

// classifyError maps an SDK error onto the error taxonomy. Missing stacks are
// reported by the API as a ValidationError; other API errors become apiKind,
// and anything that never reached the API is unavailability.
func classifyError(err error, apiKind error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %v", models.ErrRemoteUnavailable, err)
	}

	msg := apiErr.ErrorMessage()
	if apiErr.ErrorCode() == "ValidationError" && strings.Contains(msg, "does not exist") {
		return fmt.Errorf("%w: %s", models.ErrRemoteNotFound, msg)
	}

	if apiKind == models.ErrRemoteUnavailable {
		return fmt.Errorf("%w: %s: %s", apiKind, apiErr.ErrorCode(), msg)
	}
	return fmt.Errorf("%w: %s", apiKind, msg)
}
