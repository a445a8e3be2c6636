package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. It names jobs and blogs submitted to the
// ML services, so identifiers sort by submission time in their logs.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
