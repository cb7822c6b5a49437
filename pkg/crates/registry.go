package crates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"

	"github.com/Masterminds/semver/v3"
	"github.com/chainguard-dev/clog"

	"github.com/ehuss/cargo-clone-crate/pkg/http"
)

// DefaultRegistry is the public crates.io instance.
const DefaultRegistry = "https://crates.io"

// VersionInfo describes one published version of a crate.
type VersionInfo struct {
	Version *semver.Version
	Num     string

	// RepositoryURL is the crate's declared source repository, empty when
	// the crate declares neither a repository nor a homepage.
	RepositoryURL string

	// ArchiveURL is the absolute download URL for this version's tarball.
	ArchiveURL string

	Yanked bool
}

// Client queries a crate registry's metadata endpoint.
type Client struct {
	BaseURL    string
	HTTPClient *http.RLHTTPClient
}

// NewClient returns a registry client for baseURL, falling back to the
// public registry when baseURL is empty.
func NewClient(baseURL string, hc *http.RLHTTPClient) *Client {
	if baseURL == "" {
		baseURL = DefaultRegistry
	}
	if hc == nil {
		hc = http.NewDefaultClient()
	}
	return &Client{BaseURL: baseURL, HTTPClient: hc}
}

type crateResponse struct {
	Crate struct {
		Repository string `json:"repository"`
		Homepage   string `json:"homepage"`
	} `json:"crate"`
	Versions []struct {
		Num    string `json:"num"`
		DlPath string `json:"dl_path"`
		Yanked bool   `json:"yanked"`
	} `json:"versions"`
}

// Lookup fetches the registry metadata for a crate and returns its known
// versions, newest ordering as reported by the registry. It issues exactly
// one request; a failure is surfaced immediately.
func (c *Client) Lookup(ctx context.Context, name string) ([]VersionInfo, error) {
	log := clog.FromContext(ctx)

	url := fmt.Sprintf("%s/api/v1/crates/%s", c.BaseURL, name)
	resp, err := c.HTTPClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ErrRegistryUnavailable, url, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case nethttp.StatusOK:
	case nethttp.StatusNotFound:
		return nil, fmt.Errorf("%w: crate %q is not on %s", ErrNotFound, name, c.BaseURL)
	default:
		return nil, fmt.Errorf("%w: GET %s: unexpected status %d", ErrRegistryUnavailable, url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response for %s: %v", ErrRegistryUnavailable, url, err)
	}

	var cr crateResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("%w: decoding response for %s: %v", ErrRegistryUnavailable, url, err)
	}

	// The registry prefers the repository field but older crates only
	// declare a homepage.
	repo := cr.Crate.Repository
	if repo == "" {
		repo = cr.Crate.Homepage
	}

	versions := make([]VersionInfo, 0, len(cr.Versions))
	for _, v := range cr.Versions {
		parsed, err := semver.NewVersion(v.Num)
		if err != nil {
			log.Debugf("skipping unparseable version %q of crate %s: %v", v.Num, name, err)
			continue
		}
		versions = append(versions, VersionInfo{
			Version:       parsed,
			Num:           v.Num,
			RepositoryURL: repo,
			ArchiveURL:    c.BaseURL + v.DlPath,
			Yanked:        v.Yanked,
		})
	}

	return versions, nil
}
