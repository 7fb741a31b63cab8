package http_probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/plugtree/registry"
	"github.com/vk/plugtree/schema"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Config defines the config block for the http_probe plugin.
type Config struct {
	URL          string `plug:"url"`
	Timeout      string `plug:"timeout"`
	ExpectStatus int    `plug:"expect_status"`
}

// Probe is a ready-to-fire HTTP check. Init builds it without sending
// any request; callers decide when to Check.
type Probe struct {
	URL          string
	ExpectStatus int
	Client       *http.Client
}

// Check sends one GET request and verifies the response status.
func (p *Probe) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != p.ExpectStatus {
		return fmt.Errorf("probe %s: expected status %d, got %d", p.URL, p.ExpectStatus, resp.StatusCode)
	}
	return nil
}

// Init builds the probe and its HTTP client.
func Init(ctx context.Context, cfg any, _ map[string]any) (any, error) {
	c := cfg.(*Config)

	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	return &Probe{URL: c.URL, ExpectStatus: c.ExpectStatus, Client: client}, nil
}

// Register registers the plugin with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("http_probe", &registry.Plugin{
		Description: "Builds a reusable HTTP status probe.",
		ConfigSpec: &schema.Spec{Fields: []schema.Field{
			{Name: "url", Type: cty.String, Description: "URL to probe.", Required: true},
			{Name: "timeout", Type: cty.String, Description: "Request timeout as a Go duration.", Default: schema.DefaultVal(cty.StringVal("10s"))},
			{Name: "expect_status", Type: cty.Number, Description: "Expected HTTP status code.", Integer: true, Min: schema.Bound(100), Max: schema.Bound(599), Default: schema.DefaultVal(cty.NumberIntVal(200))},
		}},
		NewConfig: func() any { return new(Config) },
		Init:      Init,
	})
}
