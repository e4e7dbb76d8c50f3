package util

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewSessionID tags one start-to-finish conversation cycle in the logs.
func NewSessionID() string {
	return "ses_" + newULID()
}

// NewGatewayMessageID is used by the mock gateway as its accepted-message id.
func NewGatewayMessageID() string {
	return newULID()
}

func newULID() string {
	// ULID is sortable (nice for grepping logs by time)
	t := time.Now().UTC()
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}
