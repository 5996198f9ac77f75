// Package gallery holds the leaf components of the photo feed: the pagination
// cursor codec, the date-range filter builder and the month aggregator.
package gallery

import (
	"strings"
	"time"
)

// cursorTimeLayout is RFC3339 with millisecond precision, always UTC
const cursorTimeLayout = "2006-01-02T15:04:05.000Z"

// Cursor marks the (takenAt, id) position of the last item of a page.
// Listings are ordered takenAt DESC, id DESC; the id tiebreak guarantees a
// total order so the cursor is stable.
type Cursor struct {
	TakenAt time.Time
	ID      string
}

// EncodeCursor produces the opaque token handed back to clients
func EncodeCursor(takenAt time.Time, id string) string {
	return takenAt.UTC().Format(cursorTimeLayout) + "|" + id
}

// DecodeCursor parses a client-supplied token. A malformed token is treated
// as "no cursor": the second return value is false and decoding never panics.
// The split is on the last separator, so a token whose id itself contains '|'
// leaves an unparseable timestamp part and decodes as malformed.
func DecodeCursor(token string) (Cursor, bool) {
	idx := strings.LastIndex(token, "|")
	if idx <= 0 || idx == len(token)-1 {
		return Cursor{}, false
	}

	takenPart := token[:idx]
	id := token[idx+1:]

	takenAt, err := time.Parse(cursorTimeLayout, takenPart)
	if err != nil {
		takenAt, err = time.Parse(time.RFC3339, takenPart)
		if err != nil {
			return Cursor{}, false
		}
	}

	return Cursor{TakenAt: takenAt.UTC(), ID: id}, true
}

// Before reports whether a record at (takenAt, id) belongs to a later page
// than the cursor position: strictly older, or same instant with a smaller id,
// under the takenAt DESC, id DESC total order. It is the in-memory form of
// the keyset predicate the photo store pushes into its page query.
func (c Cursor) Before(takenAt time.Time, id string) bool {
	if takenAt.Before(c.TakenAt) {
		return true
	}
	if takenAt.Equal(c.TakenAt) {
		return id < c.ID
	}
	return false
}
