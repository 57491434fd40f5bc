// Package idgen builds the identifiers used across the service.
package idgen

import (
	"strconv"
	"time"

	"github.com/mbd888/andromeda/internal/rng"
)

// Stamped builds "<prefix>_<unix millis>_<n base36 chars>".
// Uniqueness is best-effort: two ids in the same millisecond collide only if
// the random suffix does too.
func Stamped(prefix string, at time.Time, src rng.Source, n int) string {
	return prefix + "_" + strconv.FormatInt(at.UnixMilli(), 10) + "_" + rng.Base36(src, n)
}
