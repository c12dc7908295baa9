// Package config loads the reqguard server configuration with viper.
//
// Values come from, in increasing precedence: built-in defaults, a YAML
// config file, REQGUARD_* environment variables (dots in keys become
// underscores, e.g. REQGUARD_GATEWAY_HEADER) and explicitly set command-line
// flags (see FlagLoader).
//
// Example file:
//
//	listen: ":8080"
//	hosting: webhost
//	error_detail: false
//	upstream: "http://127.0.0.1:9000"
//	cors:
//	  policies:
//	    - name: foo
//	      headers: "X-Api-Rate;Foo"
//	      methods: "GET;POST;PUT"
//	      origins: "http://foo.com;http://www.abc.com"
//	      exposed_headers: "X-Response-Header;Bar"
//	ip_filtering:
//	  ip_addresses:
//	    - address: 192.168.0.196
//	    - address: 192.168.0.197
//	      denied: true
//	routes:
//	  - path: /api/
//	    cors_policy: foo
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"strings"

	"github.com/spf13/viper"

	"github.com/abczzz13/reqguard/clientaddr"
	"github.com/abczzz13/reqguard/corspolicy"
	"github.com/abczzz13/reqguard/ipfilter"
)

const (
	EnvPrefix = "REQGUARD"

	DefaultListen      = ":8080"
	DefaultMetricsPath = "/metrics"
	DefaultFileName    = "reqguard"
)

// Keys understood by Load.
const (
	KeyListen         = "listen"
	KeyHosting        = "hosting"
	KeyErrorDetail    = "error_detail"
	KeyMetricsPath    = "metrics_path"
	KeyUpstream       = "upstream"
	KeyGatewayHeader  = "gateway.header"
	KeyTrustedProxies = "gateway.trusted_proxies"
)

// Config is the validated server configuration.
type Config struct {
	Listen      string
	Hosting     clientaddr.HostingMode
	ErrorDetail bool
	MetricsPath string
	Upstream    *url.URL

	Policies []corspolicy.Entry
	IPList   ipfilter.List
	Routes   []Route
	Gateway  Gateway
}

// Route attaches a named CORS policy to a path prefix.
type Route struct {
	Path       string `mapstructure:"path"`
	CORSPolicy string `mapstructure:"cors_policy"`
}

// Gateway describes the reverse proxy in front of the server.
type Gateway struct {
	Header         string
	TrustedProxies []netip.Prefix
}

type fileConfig struct {
	Listen      string `mapstructure:"listen"`
	Hosting     string `mapstructure:"hosting"`
	ErrorDetail bool   `mapstructure:"error_detail"`
	MetricsPath string `mapstructure:"metrics_path"`
	Upstream    string `mapstructure:"upstream"`

	CORS struct {
		Policies []corspolicy.Entry `mapstructure:"policies"`
	} `mapstructure:"cors"`

	IPFiltering struct {
		IPAddresses []ipfilter.Entry `mapstructure:"ip_addresses"`
	} `mapstructure:"ip_filtering"`

	Routes []Route `mapstructure:"routes"`

	Gateway struct {
		Header         string   `mapstructure:"header"`
		TrustedProxies []string `mapstructure:"trusted_proxies"`
	} `mapstructure:"gateway"`
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyListen, DefaultListen)
	v.SetDefault(KeyHosting, clientaddr.HostingAuto.String())
	v.SetDefault(KeyErrorDetail, false)
	v.SetDefault(KeyMetricsPath, DefaultMetricsPath)
	v.SetDefault(KeyUpstream, "")
	v.SetDefault(KeyGatewayHeader, "")
	v.SetDefault(KeyTrustedProxies, []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile merges a config file into v. An empty path searches for
// reqguard.yaml in the working directory, $HOME/.reqguard and /etc/reqguard;
// not finding one there is not an error. It reports whether a file was read.
func ReadFile(v *viper.Viper, path string) (bool, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultFileName)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.reqguard")
		v.AddConfigPath("/etc/reqguard/")
	}

	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("read config: %w", err)
	}
	return true, nil
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var raw fileConfig
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg := &Config{
		Listen:      strings.TrimSpace(raw.Listen),
		ErrorDetail: raw.ErrorDetail,
		MetricsPath: raw.MetricsPath,
		Policies:    raw.CORS.Policies,
		Routes:      raw.Routes,
		Gateway:     Gateway{Header: strings.TrimSpace(raw.Gateway.Header)},
	}

	if cfg.Listen == "" {
		return nil, fmt.Errorf("%s cannot be empty", KeyListen)
	}

	hosting, err := clientaddr.ParseHostingMode(raw.Hosting)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyHosting, err)
	}
	cfg.Hosting = hosting

	if cfg.MetricsPath != "" && !strings.HasPrefix(cfg.MetricsPath, "/") {
		return nil, fmt.Errorf("%s must start with '/', got %q", KeyMetricsPath, cfg.MetricsPath)
	}

	if raw.Upstream != "" {
		upstream, err := url.Parse(raw.Upstream)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", KeyUpstream, err)
		}
		if upstream.Scheme == "" || upstream.Host == "" {
			return nil, fmt.Errorf("%s must be an absolute URL, got %q", KeyUpstream, raw.Upstream)
		}
		cfg.Upstream = upstream
	}

	list, err := ipfilter.NewList(raw.IPFiltering.IPAddresses)
	if err != nil {
		return nil, fmt.Errorf("ip_filtering.ip_addresses: %w", err)
	}
	cfg.IPList = list

	for i, r := range cfg.Routes {
		if !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("routes[%d].path must start with '/', got %q", i, r.Path)
		}
	}

	trusted, err := clientaddr.ParseCIDRs(raw.Gateway.TrustedProxies...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyTrustedProxies, err)
	}
	cfg.Gateway.TrustedProxies = trusted

	if cfg.Hosting == clientaddr.HostingGateway && cfg.Gateway.Header == "" {
		return nil, fmt.Errorf("hosting mode %q requires %s", cfg.Hosting, KeyGatewayHeader)
	}
	if cfg.Gateway.Header != "" && cfg.Hosting != clientaddr.HostingGateway {
		return nil, fmt.Errorf("%s is only read in hosting mode %q, got %q", KeyGatewayHeader, clientaddr.HostingGateway, cfg.Hosting)
	}
	if cfg.Gateway.Header != "" && len(cfg.Gateway.TrustedProxies) == 0 {
		return nil, fmt.Errorf("%s requires %s so that only known proxies can set it", KeyGatewayHeader, KeyTrustedProxies)
	}

	return cfg, nil
}

// PolicyNames returns the distinct policy names in declaration order.
func (c *Config) PolicyNames() []string {
	seen := make(map[string]struct{}, len(c.Policies))
	names := make([]string, 0, len(c.Policies))
	for _, p := range c.Policies {
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		names = append(names, p.Name)
	}
	return names
}
