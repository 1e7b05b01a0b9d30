// SPDX-License-Identifier: Apache-2.0

package models

import (
	"fmt"
	"regexp"
)

var stackNamePattern = regexp.MustCompile(`^[A-Za-z][-A-Za-z0-9]{0,127}$`)

// ValidateStackName rejects names CloudFormation would refuse. Stack names end
// up as directory and file names, so ARNs are not accepted either.
func ValidateStackName(name string) error {
	if name == "" {
		return fmt.Errorf("stack name is required")
	}
	if !stackNamePattern.MatchString(name) {
		return fmt.Errorf("invalid stack name %q: must start with a letter and contain only letters, digits and hyphens (max 128)", name)
	}
	return nil
}
