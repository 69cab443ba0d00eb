package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reallygood83/mathemotion/app"
	"github.com/reallygood83/mathemotion/internal/analysis"
	"github.com/reallygood83/mathemotion/internal/config"
	"github.com/reallygood83/mathemotion/internal/errors"
)

func testConfig() *config.Config {
	return &config.Config{
		Chart: config.ChartConfig{
			DPI:           36,
			WidthInches:   6,
			HeightInches:  4,
			MaxConcurrent: 1,
			MissingPolicy: "exclude",
		},
		Data:     config.DataConfig{UploadMaxBytes: 1 << 20, SampleSeed: 11},
		LogLevel: "ERROR",
	}
}

func TestNewWiresDashboard(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)
	assert.Equal(t, analysis.MissingExcluded, c.Renderer.Policy())

	result, err := c.Dashboard.Load(context.Background(), app.LoadRequest{Source: app.SourceSample})
	require.NoError(t, err)
	assert.Equal(t, 10, result.Table.Len())

	identity, err := c.Credentials.Upload([]byte(`{"type":"service_account","client_email":"a@b.c","private_key":"k"}`))
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", identity.ClientEmail)
}

func TestNewRejectsBadPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.Chart.MissingPolicy = "median"
	_, err := New(cfg)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	cfg = testConfig()
	cfg.LogLevels = "chart"
	_, err = New(cfg)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	_, err = New(nil)
	assert.Error(t, err)
}
