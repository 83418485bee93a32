// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"fmt"
)

var ErrNameTooLong = errors.New("display name too long")

// MemberID is the opaque identity token of one logical participant.
// It is issued by the transport layer and survives reconnects.
type MemberID string

// DefaultName is the display name used until a member renames itself.
func DefaultName(ordinal int) string {
	return fmt.Sprintf("member-%d", ordinal)
}

// ValidateName checks name against maxLen bytes. A maxLen of zero or less means no limit.
// Any other name, the empty one included, is accepted.
func ValidateName(name string, maxLen int) error {
	if maxLen > 0 && len(name) > maxLen {
		return ErrNameTooLong
	}
	return nil
}
