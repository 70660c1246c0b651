package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs sort by creation time, so notification
// ids and archive object keys list in the order they were produced.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
