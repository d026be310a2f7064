package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Veysel440/go-ip-allowlist/internal/allowlist"
)

type Config struct {
	Env  string `validate:"required"`
	Port string `validate:"required,numeric"`

	ReadTimeout, WriteTimeout time.Duration

	Allowlist     []string `validate:"required,dive,ip"`
	AllowlistFile string
	TrustProxy    bool

	CorsOrigins []string
	LogLevel    string `validate:"oneof=debug info warn error"`
	LogFormat   string `validate:"oneof=json text"`

	OTELEndpoint string
	OTELSample   float64 `validate:"gte=0,lte=1"`
}

// -------- helpers --------
func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func mustDur(k, def string) time.Duration {
	v := getenv(k, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(k + ": invalid duration " + v)
	}
	return d
}
func mustBool(k, def string) bool {
	v := getenv(k, def)
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(k + ": invalid bool " + v)
	}
	return b
}
func mustFloat(k, def string) float64 {
	v := getenv(k, def)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		panic(k + ": invalid float " + v)
	}
	return f
}
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type allowlistFile struct {
	Allowlist []string `yaml:"allowlist"`
}

// readAllowlistFile parses a YAML document of the form `allowlist: [..]`.
func readAllowlistFile(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f allowlistFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f.Allowlist, nil
}

// Load reads .env (if present) and the process environment. Malformed
// scalars panic; allowlist contents are checked by Validate.
func Load() Config {
	_ = godotenv.Load()

	c := Config{
		Env:          getenv("APP_ENV", "dev"),
		Port:         getenv("PORT", "3000"),
		ReadTimeout:  mustDur("APP_READ_TIMEOUT", "5s"),
		WriteTimeout: mustDur("APP_WRITE_TIMEOUT", "10s"),

		Allowlist:     splitCSV(getenv("ALLOWLIST", strings.Join(allowlist.DefaultEntries, ","))),
		AllowlistFile: os.Getenv("ALLOWLIST_FILE"),
		TrustProxy:    mustBool("TRUST_PROXY", "true"),

		CorsOrigins: splitCSV(getenv("CORS_ORIGINS", "*")),
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat:   strings.ToLower(getenv("LOG_FORMAT", "json")),

		OTELEndpoint: os.Getenv("OTEL_ENDPOINT"),
		OTELSample:   mustFloat("OTEL_SAMPLE", "0"),
	}
	if c.AllowlistFile != "" {
		extra, err := readAllowlistFile(c.AllowlistFile)
		if err != nil {
			panic("ALLOWLIST_FILE: " + err.Error())
		}
		c.Allowlist = append(c.Allowlist, extra...)
	}
	return c
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	return validate.Struct(c)
}

// List builds the immutable allowlist used by the middleware.
func (c Config) List() *allowlist.List {
	return allowlist.New(c.Allowlist...)
}
