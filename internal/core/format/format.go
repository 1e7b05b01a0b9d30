// SPDX-License-Identifier: Apache-2.0

package format

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Artifacts may hold secrets pulled from parameters, so keep them private to the user
const artifactFileMode = 0600

// ReadFile reads an artifact back exactly as stored
func ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

// WriteFile writes data byte-for-byte, replacing any existing content
func WriteFile(filePath string, data []byte) error {
	if err := os.WriteFile(filePath, data, artifactFileMode); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}
	return nil
}

// WriteYAML writes data to a file in YAML format
func WriteYAML(filePath string, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("error marshaling YAML: %w", err)
	}

	return os.WriteFile(filePath, data, 0644)
}

// CopyFile copies src to dst, truncating dst if it exists
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("error opening source file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, artifactFileMode)
	if err != nil {
		return fmt.Errorf("error creating destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("error copying file: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("error closing destination file: %w", err)
	}
	return nil
}
