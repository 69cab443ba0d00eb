package credentials

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/reallygood83/mathemotion/internal"
	"github.com/reallygood83/mathemotion/internal/errors"
	"github.com/reallygood83/mathemotion/ports"
)

// Identity is what a validated service-account key says about itself
type Identity struct {
	ClientEmail string `json:"client_email"`
	ProjectID   string `json:"project_id"`
	Source      string `json:"source"`
}

// Validate checks that blob is a service-account key with the fields the
// Sheets client needs
func Validate(blob []byte) (*Identity, error) {
	if !gjson.ValidBytes(blob) {
		return nil, errors.CredentialInvalid("credential is not valid JSON", nil)
	}
	fields := gjson.GetManyBytes(blob, "type", "client_email", "private_key", "project_id")
	if fields[0].String() != "service_account" {
		return nil, errors.CredentialInvalid("credential type must be service_account", nil)
	}
	var missing []string
	if fields[1].String() == "" {
		missing = append(missing, "client_email")
	}
	if fields[2].String() == "" {
		missing = append(missing, "private_key")
	}
	if len(missing) > 0 {
		return nil, errors.CredentialInvalid("credential is missing "+strings.Join(missing, ", "), nil)
	}
	return &Identity{ClientEmail: fields[1].String(), ProjectID: fields[3].String()}, nil
}

// Chain tries providers in order; the first valid key wins and is cached until
// the upload provider receives a new key
type Chain struct {
	providers []ports.CredentialProvider
	upload    *UploadProvider
	logger    *internal.Logger

	mu       sync.Mutex
	cached   []byte
	identity *Identity
}

// NewChain builds the chain: secret, env path, local file, then uploaded key
func NewChain(secretJSON, envPath, localFile string, upload *UploadProvider, logger *internal.Logger) *Chain {
	if upload == nil {
		upload = NewUploadProvider()
	}
	providers := []ports.CredentialProvider{
		EnvProvider{Value: secretJSON},
		FileProvider{Label: "GOOGLE_CREDENTIALS_PATH", Path: envPath},
		FileProvider{Label: "local file", Path: localFile, Optional: true},
		upload,
	}
	return NewChainOf(providers, upload, logger)
}

// NewChainOf builds a chain over arbitrary providers; upload may be nil
func NewChainOf(providers []ports.CredentialProvider, upload *UploadProvider, logger *internal.Logger) *Chain {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Chain{providers: providers, upload: upload, logger: logger}
}

// Credential implements ports.CredentialProvider
func (c *Chain) Credential(ctx context.Context) ([]byte, error) {
	blob, _, err := c.Resolve(ctx)
	return blob, err
}

func (c *Chain) Name() string { return "chain" }

// Resolve returns the first valid key and who provided it
func (c *Chain) Resolve(ctx context.Context) ([]byte, *Identity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached != nil {
		return c.cached, c.identity, nil
	}

	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		blob, err := p.Credential(ctx)
		if stderrors.Is(err, ports.ErrNoCredential) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		identity, err := Validate(blob)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "credential from %s", p.Name())
		}
		identity.Source = p.Name()
		c.cached, c.identity = blob, identity
		c.logger.Info("[Credentials] using %s key for %s", identity.Source, identity.ClientEmail)
		return blob, identity, nil
	}
	return nil, nil, errors.CredentialMissing("Google API credentials are not configured: set GOOGLE_CREDENTIALS or GOOGLE_CREDENTIALS_PATH, place credentials.json next to the binary, or upload a key")
}

// Upload stores a key from the dashboard and drops the cached resolution
func (c *Chain) Upload(blob []byte) (*Identity, error) {
	if c.upload == nil {
		return nil, errors.InvalidInput("credential upload is disabled")
	}
	if err := c.upload.Store(blob); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.cached, c.identity = nil, nil
	c.mu.Unlock()

	identity, _ := Validate(blob)
	identity.Source = c.upload.Name()
	return identity, nil
}
