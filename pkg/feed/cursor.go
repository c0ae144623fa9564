package feed

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// cursorTimeLayout keeps sub-second precision so that rows written in
// the same second still order deterministically after a round trip.
const cursorTimeLayout = time.RFC3339Nano

var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor marks the last row of a page. The next page holds rows
// strictly below it in (date_updated DESC, id DESC) order, which keeps
// pages free of duplicates and gaps even when timestamps collide.
type Cursor struct {
	UpdatedAt time.Time
	ID        uint
}

// String encodes the cursor as "{timestamp}::{id}". Callers treat the
// result as opaque; it must round-trip through ParseCursor exactly.
func (c Cursor) String() string {
	return c.UpdatedAt.UTC().Format(cursorTimeLayout) + "::" + strconv.FormatUint(uint64(c.ID), 10)
}

func ParseCursor(raw string) (*Cursor, error) {
	timestamp, id, found := strings.Cut(raw, "::")
	if !found {
		return nil, fmt.Errorf("%w: missing separator", ErrInvalidCursor)
	}

	updatedAt, err := time.Parse(cursorTimeLayout, timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCursor, timestamp)
	}

	rowID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCursor, id)
	}

	return &Cursor{UpdatedAt: updatedAt, ID: uint(rowID)}, nil
}
