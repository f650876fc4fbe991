// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Key identifies a cached resource, e.g. ["messages", "42"]. Keys compare
// structurally.
type Key []string

// NewKey builds a key from identifiers. Strings and fmt.Stringers are used
// as-is; everything else is formatted with fmt.
func NewKey(parts ...any) Key {
	key := make(Key, len(parts))
	for i, p := range parts {
		switch v := p.(type) {
		case string:
			key[i] = v
		case fmt.Stringer:
			key[i] = v.String()
		case int:
			key[i] = strconv.Itoa(v)
		case int64:
			key[i] = strconv.FormatInt(v, 10)
		default:
			key[i] = fmt.Sprint(v)
		}
	}
	return key
}

// String returns an unambiguous encoding of the key. Two keys have the same
// encoding exactly when they are Equal.
func (k Key) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, part := range k {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Quote(part))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Equal reports whether k and other have the same parts.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether k starts with every part of prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	return k[:len(prefix)].Equal(prefix)
}

// Complete reports whether every part is non-empty. A key built from an
// absent identifier is incomplete and should not be resolved.
func (k Key) Complete() bool {
	if len(k) == 0 {
		return false
	}
	for _, part := range k {
		if part == "" {
			return false
		}
	}
	return true
}
