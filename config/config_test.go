package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATA_SOURCE", "")
	t.Setenv("CSV_PATH", "")
	t.Setenv("HISTOGRAM_BINS", "")

	cfg := Load()

	assert.Equal(t, SourceCSV, cfg.DataSource)
	assert.Equal(t, "data.csv", cfg.CSVPath)
	assert.Equal(t, 20, cfg.HistogramBins)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATA_SOURCE", "Postgres")
	t.Setenv("POSTGRES_TABLE", "z3_listings")
	t.Setenv("HISTOGRAM_BINS", "30")
	t.Setenv("MAX_RETRIES", "not-a-number")
	t.Setenv("LOG_DEBUG", "true")

	cfg := Load()

	assert.Equal(t, SourcePostgres, cfg.DataSource)
	assert.Equal(t, "z3_listings", cfg.PostgresTable)
	assert.Equal(t, 30, cfg.HistogramBins)
	assert.Equal(t, 3, cfg.MaxRetries, "unparsable ints fall back to the default")
	assert.True(t, cfg.Debug)
	assert.Contains(t, cfg.DSN(), "dbname=listings_db")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DataSource:    SourceCSV,
			CSVPath:       "data.csv",
			MaxRetries:    3,
			HTTPAddr:      "127.0.0.1:8501",
			HistogramBins: 20,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid csv", func(c *Config) {}, false},
		{"unknown source", func(c *Config) { c.DataSource = "excel" }, true},
		{"csv without path", func(c *Config) { c.CSVPath = "" }, true},
		{"postgres without table", func(c *Config) { c.DataSource = SourcePostgres; c.CSVPath = "" }, true},
		{"postgres with table", func(c *Config) { c.DataSource = SourcePostgres; c.PostgresTable = "listings" }, false},
		{"zero bins", func(c *Config) { c.HistogramBins = 0 }, true},
		{"negative limit", func(c *Config) { c.TableLimit = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
