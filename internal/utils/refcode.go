package utils

import "crypto/rand"

// refCodeAlphabet deliberately omits easily-confused characters
// (0/O, 1/I) so reference codes survive being read over the phone.
const refCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RefCodeLength is the fixed length of public booking references.
const RefCodeLength = 8

// NewBookingReference returns a fixed-length random alphanumeric code
// used as a booking's public reference. Codes are not guaranteed
// unique here; the unique index on bookings.reference plus a bounded
// retry in the coordinator handles collisions.
func NewBookingReference() (string, error) {
	buf := make([]byte, RefCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = refCodeAlphabet[int(b)%len(refCodeAlphabet)]
	}
	return string(buf), nil
}
