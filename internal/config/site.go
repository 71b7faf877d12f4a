package config

// SiteConfig holds per-site configuration overrides. This allows customizing
// crawl behavior for one host without changing global defaults.
type SiteConfig struct {
	// UserAgent overrides the User-Agent header for this site.
	UserAgent string `yaml:"userAgent,omitempty"`

	// MaxPages overrides the page budget for this site. Zero means inherit.
	MaxPages int `yaml:"maxPages,omitempty"`

	// MaxDepth overrides the crawl depth for this site. Zero means inherit.
	MaxDepth int `yaml:"maxDepth,omitempty"`

	// Concurrency overrides in-flight fetches for this site. Zero means inherit.
	Concurrency int `yaml:"concurrency,omitempty"`

	// Headers are custom HTTP headers included in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// AllowPatterns restrict crawling to matching URLs when non-empty.
	AllowPatterns []string `yaml:"allowPatterns,omitempty"`

	// DenyPatterns are additional URL patterns to skip for this site.
	DenyPatterns []string `yaml:"denyPatterns,omitempty"`

	// RequestsPerSecond rate-limits fetches against this site when positive.
	RequestsPerSecond float64 `yaml:"requestsPerSecond,omitempty"`
}

// File represents the structure of the .seoscan configuration file.
type File struct {
	// Sites maps a host or URL to its site-specific configuration.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains configuration applied to all sites unless overridden.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the merged configuration for a site key.
// Site-specific values override defaults field by field.
func (cf *File) GetSiteConfig(site string) SiteConfig {
	result := cf.Defaults

	siteConfig, ok := cf.Sites[site]
	if !ok {
		return result
	}

	if siteConfig.UserAgent != "" {
		result.UserAgent = siteConfig.UserAgent
	}
	if siteConfig.MaxPages != 0 {
		result.MaxPages = siteConfig.MaxPages
	}
	if siteConfig.MaxDepth != 0 {
		result.MaxDepth = siteConfig.MaxDepth
	}
	if siteConfig.Concurrency != 0 {
		result.Concurrency = siteConfig.Concurrency
	}
	if len(siteConfig.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range siteConfig.Headers {
			result.Headers[k] = v
		}
	}
	if len(siteConfig.AllowPatterns) > 0 {
		result.AllowPatterns = siteConfig.AllowPatterns
	}
	if len(siteConfig.DenyPatterns) > 0 {
		result.DenyPatterns = siteConfig.DenyPatterns
	}
	if siteConfig.RequestsPerSecond > 0 {
		result.RequestsPerSecond = siteConfig.RequestsPerSecond
	}

	return result
}

// Apply merges the site config into a CrawlConfig, overriding non-zero fields.
func (sc SiteConfig) Apply(c *CrawlConfig) {
	if sc.UserAgent != "" {
		c.UserAgent = sc.UserAgent
	}
	if sc.MaxPages != 0 {
		c.MaxPages = sc.MaxPages
	}
	if sc.MaxDepth != 0 {
		c.MaxDepth = sc.MaxDepth
	}
	if sc.Concurrency != 0 {
		c.Concurrency = sc.Concurrency
	}
	if len(sc.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string)
		}
		for k, v := range sc.Headers {
			c.Headers[k] = v
		}
	}
	if len(sc.AllowPatterns) > 0 {
		c.AllowPatterns = sc.AllowPatterns
	}
	if len(sc.DenyPatterns) > 0 {
		c.DenyPatterns = append(c.DenyPatterns, sc.DenyPatterns...)
	}
	if sc.RequestsPerSecond > 0 {
		c.RequestsPerSecond = sc.RequestsPerSecond
	}
}
