package configuration

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/craftshop-erp/shopdata/pkg/logging"
)

// Configuration holds every tunable of the conversion run. Values come
// from the environment (optionally via .env files) so reruns on the same
// machine stay reproducible.
type Configuration struct {
	// Entities older than this survive only through Project reachability
	// or the exception list.
	RetentionCutoff string `env:"RETENTION_CUTOFF" envDefault:"2025-10-01"`

	// All source contacts are domestic; the export carries no country.
	DefaultCountryCode string `env:"DEFAULT_COUNTRY_CODE" envDefault:"US"`

	JobNumberPrefix      string `env:"JOB_NUMBER_PREFIX" envDefault:"J"`
	EstimateNumberPrefix string `env:"ESTIMATE_NUMBER_PREFIX" envDefault:"EST"`
	InvoiceNumberPrefix  string `env:"INVOICE_NUMBER_PREFIX" envDefault:"INV"`
	PONumberPrefix       string `env:"PO_NUMBER_PREFIX" envDefault:"PO"`
	BillNumberPrefix     string `env:"BILL_NUMBER_PREFIX" envDefault:"B"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env/.env.local if present, then the environment.
func Load() (*Configuration, error) {
	if err := loadEnv(".env", ".env.local"); err != nil {
		return nil, err
	}
	c := &Configuration{}
	if err := env.Parse(c); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	if _, err := c.Cutoff(); err != nil {
		return nil, err
	}
	return c, nil
}

func loadEnv(files ...string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return errors.Wrap(godotenv.Load(existing...), "load env files")
}

func (c *Configuration) Cutoff() (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", c.RetentionCutoff, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid RETENTION_CUTOFF %q", c.RetentionCutoff)
	}
	return t, nil
}

func (c *Configuration) Logger() *logrus.Logger {
	return logging.New(c.LogLevel)
}
