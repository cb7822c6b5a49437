package crates

import (
	"context"
	"fmt"
	"io"
	nethttp "net/http"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/schollz/progressbar/v3"

	"github.com/ehuss/cargo-clone-crate/pkg/tar"
)

// FetchAndExtract downloads the tarball for one version of a crate and
// unpacks it into dest, stripping the registry's "{name}-{version}/" prefix
// from every entry. dest is created if absent; an existing non-empty
// directory is an error.
func (c *Client) FetchAndExtract(ctx context.Context, name string, vi VersionInfo, dest string) error {
	log := clog.FromContext(ctx)

	if err := ensureDestination(dest); err != nil {
		return err
	}

	log.Infof("downloading %s", vi.ArchiveURL)
	resp, err := c.HTTPClient.Get(ctx, vi.ArchiveURL)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrDownload, vi.ArchiveURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		return fmt.Errorf("%w: GET %s: unexpected status %d", ErrDownload, vi.ArchiveURL, resp.StatusCode)
	}

	bar := progressbar.DefaultBytes(resp.ContentLength, fmt.Sprintf("%s-%s", name, vi.Num))
	body := io.TeeReader(resp.Body, bar)

	prefix := fmt.Sprintf("%s-%s", name, vi.Num)
	if err := tar.Untar(body, dest, prefix); err != nil {
		return fmt.Errorf("unpacking %s into %s: %w", vi.ArchiveURL, dest, err)
	}
	return nil
}

// ensureDestination creates dest when absent and rejects a non-empty
// existing directory so an unpack never silently merges into prior contents.
func ensureDestination(dest string) error {
	entries, err := os.ReadDir(dest)
	switch {
	case os.IsNotExist(err):
		return os.MkdirAll(dest, 0o755)
	case err != nil:
		return fmt.Errorf("checking destination %s: %w", dest, err)
	case len(entries) > 0:
		return fmt.Errorf("destination %s already exists and is not empty", dest)
	}
	return nil
}
