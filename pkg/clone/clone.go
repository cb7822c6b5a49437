// Package clone resolves a package spec against the registry and retrieves
// the crate's source, either by downloading the registry archive or by
// handing a checkout to the right version control tool.
package clone

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/ehuss/cargo-clone-crate/pkg/crates"
	"github.com/ehuss/cargo-clone-crate/pkg/http"
	"github.com/ehuss/cargo-clone-crate/pkg/vcs"
)

// BitbucketProber resolves a bitbucket repository to its VCS kind and clone
// URL. Split out so resolution logic is testable without network access.
type BitbucketProber interface {
	Probe(ctx context.Context, owner, repo string) (vcs.Kind, string, error)
}

type apiProber struct {
	client *http.RLHTTPClient
}

func (p apiProber) Probe(ctx context.Context, owner, repo string) (vcs.Kind, string, error) {
	return vcs.ProbeBitbucket(ctx, p.client, owner, repo)
}

// Cloner wires the registry client, the checkout runner and the bitbucket
// prober together. Collaborators are explicit fields so tests can substitute
// fakes for all of them.
type Cloner struct {
	Registry *crates.Client
	Runner   vcs.Runner
	Prober   BitbucketProber
}

// New returns a Cloner talking to registryURL with real collaborators.
func New(registryURL string) *Cloner {
	hc := http.NewDefaultClient()
	return &Cloner{
		Registry: crates.NewClient(registryURL, hc),
		Runner:   vcs.ExecRunner{},
		Prober:   apiProber{client: hc},
	}
}

// Options control a single clone run.
type Options struct {
	// Spec is the raw package spec: "name", "name:REQ" or "name@VERSION".
	Spec string

	// Version is the --version flag, an explicit requirement that may not
	// be combined with a requirement inside Spec.
	Version string

	Method Method

	// Dest is the destination directory, derived from the crate name when
	// empty.
	Dest string

	// ExtraArgs are passed through to the VCS tool verbatim. Archive
	// downloads take none.
	ExtraArgs []string
}

// Clone runs the whole pipeline: parse, registry lookup, version selection,
// method resolution, retrieval. Strictly sequential, nothing is retried; the
// first failure is the result of the run.
func (c *Cloner) Clone(ctx context.Context, opts Options) error {
	log := clog.FromContext(ctx)

	spec, err := crates.ParseSpec(opts.Spec)
	if err != nil {
		return err
	}
	if opts.Version != "" {
		if spec.Constrained() {
			return fmt.Errorf("%w: spec %q already carries a requirement, drop --version", crates.ErrInvalidSpec, opts.Spec)
		}
		spec, err = crates.ParseSpec(spec.Name + ":" + opts.Version)
		if err != nil {
			return err
		}
	}

	versions, err := c.Registry.Lookup(ctx, spec.Name)
	if err != nil {
		return err
	}

	vi, err := crates.SelectVersion(versions, spec)
	if err != nil {
		return err
	}
	log.Debug("selected version", "crate", spec.Name, "version", vi.Num, "yanked", vi.Yanked)

	target, err := c.resolveTarget(ctx, opts.Method, spec, vi)
	if err != nil {
		return err
	}

	dest := opts.Dest
	if dest == "" {
		dest = spec.Name
	}

	switch target.Mode {
	case ModeArchive:
		if len(opts.ExtraArgs) > 0 {
			return fmt.Errorf("got extra arguments, crate downloads take no extra arguments")
		}
		if err := c.Registry.FetchAndExtract(ctx, target.Name, vi, dest); err != nil {
			return err
		}
	case ModeVCS:
		inv := vcs.Plan(target.Kind, target.URL, dest, opts.ExtraArgs)
		if err := c.Runner.Run(ctx, inv); err != nil {
			return err
		}
	}

	log.Infof("%s %s is ready in %s", target.Name, target.Version, dest)
	return nil
}
