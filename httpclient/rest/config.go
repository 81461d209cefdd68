package rest

import (
	"fmt"
	"maps"
	"net/http"
	"slices"

	"github.com/kbukum/restkit/config"
	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/logger"
)

const (
	// DefaultAccept is the Accept value used when Config.DefaultAccept is empty.
	DefaultAccept = "application/xml"

	defaultClientName = "rest"
)

// FailureHandler is called with a response whose status is outside
// [200, 299] after a verb call, or that failed Response.RequireStatus.
// A non-nil error is returned to the caller unmodified.
type FailureHandler func(resp *Response) error

// ContentTypeFailureHandler is called when RequireContentType or
// RequireCompatibleType fails. candidate is the media type that was required.
// A non-nil error is returned to the caller unmodified.
type ContentTypeFailureHandler func(candidate string, resp *Response) error

// Config configures a Client. It is read by every request; replace it at
// runtime with Client.Configure.
type Config struct {
	// BaseURL is prefixed to every path passed to Create that does not
	// carry its own scheme.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// DefaultHeaders are sent with every request.
	DefaultHeaders map[string]string `yaml:"default_headers" mapstructure:"default_headers"`

	// DefaultAccept is the Accept value of resources that do not set one.
	// Defaults to application/xml.
	DefaultAccept string `yaml:"default_accept" mapstructure:"default_accept"`

	// XMLDeclaration controls the <?xml ...?> prefix on rendered XML bodies.
	// Nil means true.
	XMLDeclaration *bool `yaml:"xml_declaration" mapstructure:"xml_declaration"`

	FailureHandler            FailureHandler            `yaml:"-" mapstructure:"-"`
	ContentTypeFailureHandler ContentTypeFailureHandler `yaml:"-" mapstructure:"-"`

	// HTTP configures the shared transport client. Its BaseURL is ignored;
	// resources always carry absolute URLs. Changes made through Configure
	// do not rebuild the transport.
	HTTP httpclient.Config `yaml:"http" mapstructure:"http"`

	// Logging, when set, gives the client its own logger. Otherwise the
	// global logger is used. WithLogger takes precedence over both.
	Logging *logger.Config `yaml:"logging" mapstructure:"logging"`
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.DefaultAccept == "" {
		c.DefaultAccept = DefaultAccept
	}
	if c.XMLDeclaration == nil {
		on := true
		c.XMLDeclaration = &on
	}
	if c.HTTP.Name == "" {
		c.HTTP.Name = defaultClientName
	}
	c.HTTP.ApplyDefaults()
	if c.Logging != nil {
		c.Logging.ApplyDefaults()
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := config.ValidateStruct(c); err != nil {
		return fmt.Errorf("rest: %w", err)
	}
	if c.BaseURL != "" && !httpclient.HasScheme(c.BaseURL) {
		return fmt.Errorf("rest: base_url %q must be absolute", c.BaseURL)
	}
	if k := caseDuplicate(c.DefaultHeaders); k != "" {
		return fmt.Errorf("rest: default_headers has more than one %q key", k)
	}
	if c.Logging != nil {
		if err := c.Logging.Validate(); err != nil {
			return fmt.Errorf("rest: %w", err)
		}
	}
	return c.HTTP.Validate()
}

// caseDuplicate returns the canonical name of a header given twice in h
// under keys that differ only in case, or "".
func caseDuplicate(h map[string]string) string {
	seen := make(map[string]struct{}, len(h))
	for _, k := range slices.Sorted(maps.Keys(h)) {
		ck := http.CanonicalHeaderKey(k)
		if _, ok := seen[ck]; ok {
			return ck
		}
		seen[ck] = struct{}{}
	}
	return ""
}

// declaration reports whether rendered XML carries a declaration.
func (c *Config) declaration() bool {
	return c.XMLDeclaration == nil || *c.XMLDeclaration
}

// LoadConfig reads the Config called name through config.LoadConfig, with
// defaults applied and validated.
func LoadConfig(name string, opts ...config.LoaderOption) (Config, error) {
	var cfg Config
	if err := config.LoadConfig(name, &cfg, opts...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
