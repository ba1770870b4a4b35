package ports

import (
	"time"

	"github.com/civicatlas/records-system/internal/core/domain"
)

// TokenCodec issues and verifies self-contained identity tokens. Verify is a
// pure function of the token string and the process secret; it performs no I/O.
type TokenCodec interface {
	Issue(identity domain.Identity, ttl time.Duration) (string, error)
	Verify(token string) (domain.Identity, error)
}
