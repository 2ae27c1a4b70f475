// Package displayid generates the 9-character codes shown to users on
// invoices, receipts, credit notes, bookings and ledger entries.
//
// Format: TTTTRRRRC — four characters of masked Unix time, four random
// characters, one check character. The alphabet is a modified Crockford
// base-32 set that excludes 0, O, I, 1 and L.
package displayid

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"strings"
	"time"
)

const alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

var base = len(alphabet)

// Length is the fixed size of a display ID.
const Length = 9

// ErrInvalid reports a malformed or corrupted display ID.
var ErrInvalid = errors.New("displayid: invalid id")

// timestampMask keeps the low 20 bits of the Unix time, a ~12 day cycle.
const timestampMask = 0xFFFFF

func encode(num int, length int) string {
	buf := make([]byte, length)
	for i := length - 1; i >= 0; i-- {
		buf[i] = alphabet[num%base]
		num /= base
	}
	return string(buf)
}

func decode(s string) int {
	num := 0
	for i := 0; i < len(s); i++ {
		num = num*base + strings.IndexByte(alphabet, s[i])
	}
	return num
}

// checksum computes the Luhn-like check character over the 8 base chars.
func checksum(s string) byte {
	sum := 0
	for i := 0; i < len(s); i++ {
		value := strings.IndexByte(alphabet, s[i])
		multiplier := 1
		if i%2 == 0 {
			multiplier = 2
		}
		product := value * multiplier
		if product >= base {
			product = product/base + product%base
		}
		sum += product
	}
	check := (base - sum%base) % base
	return alphabet[check]
}

func randomComponent() string {
	var raw [8]byte
	if _, err := rand.Read(raw[:]); err != nil {
		// crypto/rand never fails on supported platforms; fall back to time.
		binary.BigEndian.PutUint64(raw[:], uint64(time.Now().UnixNano()))
	}
	max := base * base * base * base
	return encode(int(binary.BigEndian.Uint64(raw[:])%uint64(max)), 4)
}

// New returns a fresh display ID.
func New() string {
	ts := encode(int(time.Now().Unix())&timestampMask, 4)
	body := ts + randomComponent()
	return body + string(checksum(body))
}

// Validate reports whether id is well formed and its check character matches.
func Validate(id string) bool {
	if len(id) != Length {
		return false
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return false
		}
	}
	return id[Length-1] == checksum(id[:Length-1])
}

// Timestamp recovers the approximate creation time encoded in id. The
// timestamp component cycles every ~12 days, so the result is only an
// estimate suitable for display.
func Timestamp(id string) (time.Time, error) {
	if !Validate(id) {
		return time.Time{}, ErrInvalid
	}
	masked := decode(id[:4])
	now := time.Now().Unix()
	cycle := int64(timestampMask + 1)
	estimate := now - now&timestampMask + int64(masked)
	if estimate > now {
		estimate -= cycle
	}
	return time.Unix(estimate, 0), nil
}
