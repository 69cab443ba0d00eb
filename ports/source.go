package ports

import (
	"context"
	"errors"

	"github.com/reallygood83/mathemotion/domain/survey"
)

// RowSource produces a raw header plus data rows. Implementations do no
// normalization; every sheet goes through dataset.Normalizer.
type RowSource interface {
	Rows(ctx context.Context) (*survey.RawSheet, error)
}

// ErrNoCredential is returned by a CredentialProvider that has nothing to offer,
// so a chain can move on to the next provider.
var ErrNoCredential = errors.New("no credential available")

// CredentialProvider yields a service-account JSON blob
type CredentialProvider interface {
	Name() string
	Credential(ctx context.Context) ([]byte, error)
}
