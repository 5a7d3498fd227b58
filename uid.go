package medichain

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

const maxUIDAttempts = 10

// GenerateUID produces a fresh human-readable identifier for the given
// role's collection. Candidates combine the trailing digits of the
// current timestamp with a zero-padded random suffix and are checked
// against the store; after maxUIDAttempts collisions the generator falls
// back to a timestamp-plus-counter candidate that is not re-checked.
// Unique indexes on uid are the authoritative guard against the residual
// collision risk of the fallback.
func GenerateUID(role Role, accounts Repository) (string, error) {
	prefix := role.UIDPrefix()

	for i := 0; i < maxUIDAttempts; i++ {
		uid := fmt.Sprintf("%s-%s%03d", prefix, timestampDigits(), rand.Intn(1000))

		_, err := accounts.FindByUID(uid)
		if err == ErrNotFound {
			return uid, nil
		}
		if err != nil {
			return "", err
		}
	}

	count, err := accounts.CountAll()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%d", prefix, nowMillis(), count+1), nil
}

func timestampDigits() string {
	ts := strconv.FormatInt(nowMillis(), 10)
	return ts[len(ts)-6:]
}

func nowMillis() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}
