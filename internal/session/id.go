// Package session generates the opaque identifiers handed out on login.
package session

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"time"
)

// NewID returns a session identifier of the form
// sess_<unix-millis>_<random base-36>. Uniqueness is probabilistic; there is
// no collision check downstream.
func NewID() string {
	return "sess_" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + randomBase36(9)
}

// NewRequestID returns a per-request correlation ID of the form
// req_<unix-millis>_<random base-36>.
func NewRequestID() string {
	return "req_" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + randomBase36(7)
}

func randomBase36(length int) string {
	var buf [8]byte
	_, _ = rand.Read(buf[:])
	encoded := strconv.FormatUint(binary.BigEndian.Uint64(buf[:]), 36)
	for len(encoded) < length {
		encoded = "0" + encoded
	}
	return encoded[:length]
}
