// Package credentials resolves the Google service-account key from an ordered
// list of providers.
package credentials

import (
	"context"
	"os"
	"sync"

	"github.com/reallygood83/mathemotion/internal/errors"
	"github.com/reallygood83/mathemotion/ports"
)

// EnvProvider reads the JSON blob from a secret value (GOOGLE_CREDENTIALS)
type EnvProvider struct {
	Value string
}

func (p EnvProvider) Name() string { return "secret" }

func (p EnvProvider) Credential(ctx context.Context) ([]byte, error) {
	if p.Value == "" {
		return nil, ports.ErrNoCredential
	}
	return []byte(p.Value), nil
}

// FileProvider reads the JSON blob from a path. Optional providers report
// ErrNoCredential for a missing file instead of failing the chain.
type FileProvider struct {
	Label    string
	Path     string
	Optional bool
}

func (p FileProvider) Name() string { return p.Label }

func (p FileProvider) Credential(ctx context.Context) ([]byte, error) {
	if p.Path == "" {
		return nil, ports.ErrNoCredential
	}
	data, err := os.ReadFile(p.Path)
	if err != nil {
		if os.IsNotExist(err) && p.Optional {
			return nil, ports.ErrNoCredential
		}
		return nil, errors.CredentialInvalid("cannot read credential file "+p.Path, err)
	}
	return data, nil
}

// UploadProvider holds a key uploaded through the dashboard, in memory only
type UploadProvider struct {
	mu   sync.RWMutex
	blob []byte
}

func NewUploadProvider() *UploadProvider { return &UploadProvider{} }

func (p *UploadProvider) Name() string { return "upload" }

func (p *UploadProvider) Credential(ctx context.Context) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.blob) == 0 {
		return nil, ports.ErrNoCredential
	}
	return append([]byte(nil), p.blob...), nil
}

// Store replaces the uploaded key after validating it
func (p *UploadProvider) Store(blob []byte) error {
	if _, err := Validate(blob); err != nil {
		return err
	}
	p.mu.Lock()
	p.blob = append([]byte(nil), blob...)
	p.mu.Unlock()
	return nil
}
