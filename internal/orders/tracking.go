package orders

import (
	"crypto/rand"
	"encoding/base32"
)

const trackingPrefix = "BH-"

var trackingEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewTrackingID issues a customer-facing order reference such as
// BH-9X3KQ7M2TZ4AB. The server always issues it; client-supplied values are
// never trusted.
func NewTrackingID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is unusable anyway
		panic(err)
	}
	return trackingPrefix + trackingEncoding.EncodeToString(buf)
}
