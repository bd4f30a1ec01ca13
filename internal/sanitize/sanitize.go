// Package sanitize cleans and bounds text arriving from API clients before
// it reaches the editor.
package sanitize

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/quester/pkg/domain"
)

// DefaultMaxBodySize is 4KB, enough for any single node or game request.
const DefaultMaxBodySize = 4096

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
	ErrFieldLength   = errors.New("field length out of range")
	ErrUnknownValue  = errors.New("unknown value")
)

// Body enforces the size limit and UTF-8 validity of a raw request body.
func Body(body []byte, limit int) error {
	if len(body) > limit {
		// Reject rather than truncate so a request is either taken whole or not at all.
		return fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(body), limit)
	}
	if !utf8.Valid(body) {
		return ErrInvalidUTF8
	}
	return nil
}

// Input strips control characters from a decoded field, keeping newline,
// tab and carriage return. ANSI escapes, NUL and BEL are dropped so they
// never reach logs, terminals or stored games.
func Input(input string) string {
	// Fast path: if no control chars, return as is.
	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

// Ptr applies Input to a present value and keeps nil as nil.
func Ptr(s *string) *string {
	if s == nil {
		return nil
	}
	v := Input(*s)
	return &v
}

// Length enforces the length bounds of a present field. Absent fields are
// left to the domain, which reports them as null values.
func Length(field string, v *string, max int) error {
	if v == nil {
		return nil
	}
	n := utf8.RuneCountInString(strings.TrimSpace(*v))
	if n < domain.MinStringSize || n > max {
		return fmt.Errorf("%s must be %d to %d characters: %w", field, domain.MinStringSize, max, ErrFieldLength)
	}
	return nil
}

// Short checks a short field (ids, names) unless it is empty.
func Short(field, v string) error {
	if v == "" {
		return nil
	}
	return Length(field, &v, domain.MaxShortStringSize)
}

// Long checks a long field (descriptions) unless it is empty.
func Long(field, v string) error {
	if v == "" {
		return nil
	}
	return Length(field, &v, domain.MaxLongStringSize)
}

// NodeType parses a node type name, ignoring case. An empty value stays
// empty and is left for the tree to reject.
func NodeType(field, v string) (domain.NodeType, error) {
	if strings.TrimSpace(v) == "" {
		return "", nil
	}
	t, err := domain.ParseNodeType(v)
	if err != nil {
		return "", fmt.Errorf("%w: %s %q (want one of ROOM, CHOICE, FLAG, CONDITION)", ErrUnknownValue, field, v)
	}
	return t, nil
}

// FlagState parses a flag state name, ignoring case. An empty value stays
// absent so a condition without one is still reported as a null value.
func FlagState(field, v string) (domain.FlagState, error) {
	if strings.TrimSpace(v) == "" {
		return "", nil
	}
	st, err := domain.ParseFlagState(v)
	if err != nil {
		return "", fmt.Errorf("%w: %s %q (want ACTIVE or NOT_ACTIVE)", ErrUnknownValue, field, v)
	}
	return st, nil
}
