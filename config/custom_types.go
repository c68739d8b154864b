/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	"gopkg.in/yaml.v3"
)

// ByteSize is a size in bytes. In configuration it may be written either as a plain number
// or in human-readable form: "512K", "1M", "64Ki" (k8s-style suffixes mean the same power-of-two units).
type ByteSize uint64

// ParseByteSize parses the number or human-readable size.
func ParseByteSize(raw string) (ByteSize, error) {
	s := strings.TrimSpace(raw)
	if num, err := strconv.ParseInt(s, 10, 64); err == nil {
		if num < 0 {
			return 0, fmt.Errorf("negative size is not allowed: %d", num)
		}
		return ByteSize(num), nil
	}
	if strings.HasSuffix(s, "i") && len(s) > 2 && strings.ContainsRune("KMGTPE", rune(s[len(s)-2])) {
		s = s[:len(s)-1]
	}
	num, err := bytefmt.ToBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size format (%s): %w", raw, err)
	}
	return ByteSize(num), nil
}

// UnmarshalJSON implements json.Unmarshaler. Both numbers and strings are accepted.
func (b *ByteSize) UnmarshalJSON(data []byte) error {
	return b.UnmarshalText([]byte(strings.Trim(string(data), `"`)))
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *ByteSize) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid byte size format: line %d: scalar expected", value.Line)
	}
	return b.UnmarshalText([]byte(value.Value))
}

// UnmarshalText implements encoding.TextUnmarshaler, so mapstructure decodes ByteSize from strings too.
func (b *ByteSize) UnmarshalText(text []byte) error {
	parsed, err := ParseByteSize(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// String returns the human-readable form, e.g. "5M".
func (b ByteSize) String() string {
	return bytefmt.ByteSize(uint64(b))
}

// MarshalJSON encodes the size in human-readable form.
func (b ByteSize) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// MarshalYAML encodes the size in human-readable form.
func (b ByteSize) MarshalYAML() (interface{}, error) {
	return b.String(), nil
}
