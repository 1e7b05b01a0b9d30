// SPDX-License-Identifier: Apache-2.0

package version

// Set at build time via -ldflags "-X github.com/kusari-oss/cfnupd/internal/version.Version=..."
var (
	Version = "dev"
	Commit  = "none"
)
