package clone

import (
	"context"
	"errors"
	"fmt"

	"github.com/ehuss/cargo-clone-crate/pkg/crates"
	"github.com/ehuss/cargo-clone-crate/pkg/vcs"
)

var (
	// ErrNoRepositoryURL means a VCS method was requested but the crate
	// declares no repository.
	ErrNoRepositoryURL = errors.New("no repository URL")

	// ErrAmbiguousMethod means no VCS kind could be confidently inferred
	// from the repository URL.
	ErrAmbiguousMethod = errors.New("could not determine the VCS")

	// ErrMethodConflict means the user combined a version requirement
	// with an explicit VCS method; checkouts track branch tips and cannot
	// satisfy a version pin.
	ErrMethodConflict = errors.New("conflicting method and version requirement")
)

// Method is the user's retrieval method choice.
type Method string

const (
	MethodAuto  Method = "auto"
	MethodCrate Method = "crate"
)

// ParseMethod validates a --method flag value. Besides "auto" and "crate"
// every known VCS kind is accepted.
func ParseMethod(s string) (Method, error) {
	if s == "" || Method(s) == MethodAuto {
		return MethodAuto, nil
	}
	if Method(s) == MethodCrate {
		return MethodCrate, nil
	}
	if _, ok := vcs.ParseKind(s); ok {
		return Method(s), nil
	}
	return "", fmt.Errorf("unsupported method %q", s)
}

// RetrievalMode says how a resolved target will be materialized.
type RetrievalMode int

const (
	ModeArchive RetrievalMode = iota
	ModeVCS
)

// Target is a fully resolved retrieval decision: one crate, one version,
// one way to fetch it.
type Target struct {
	Name    string
	Version string
	Mode    RetrievalMode
	Kind    vcs.Kind // set when Mode == ModeVCS
	URL     string   // archive download URL or VCS clone URL
}

// resolveTarget decides between a VCS checkout and an archive download.
// The decision is deterministic given the method, the spec and the selected
// version; only the bitbucket probe reaches out to the network.
func (c *Cloner) resolveTarget(ctx context.Context, method Method, spec *crates.PackageSpec, vi crates.VersionInfo) (Target, error) {
	target := Target{Name: spec.Name, Version: vi.Num}

	switch method {
	case MethodCrate:
		target.Mode = ModeArchive
		target.URL = vi.ArchiveURL
		return target, nil

	case MethodAuto:
		if spec.Constrained() || vi.RepositoryURL == "" {
			// A version requirement always resolves to the registry
			// archive; so does a crate with no repository to clone.
			target.Mode = ModeArchive
			target.URL = vi.ArchiveURL
			return target, nil
		}
		return c.detectTarget(ctx, target, vi.RepositoryURL)

	default:
		if spec.Constrained() {
			return Target{}, fmt.Errorf("%w: --method %s cannot satisfy requirement %q, drop one of them", ErrMethodConflict, method, spec.ReqText)
		}
		if vi.RepositoryURL == "" {
			return Target{}, fmt.Errorf("%w: crate %q declares no repository on the registry", ErrNoRepositoryURL, spec.Name)
		}
		kind, _ := vcs.ParseKind(string(method))
		target.Mode = ModeVCS
		target.Kind = kind
		target.URL = vi.RepositoryURL
		return target, nil
	}
}

func (c *Cloner) detectTarget(ctx context.Context, target Target, repo string) (Target, error) {
	det, ok := vcs.Detect(repo)
	if !ok {
		return Target{}, fmt.Errorf("%w from repo %q, use --method to specify how to download", ErrAmbiguousMethod, repo)
	}

	if det.NeedsProbe {
		kind, cloneURL, err := c.Prober.Probe(ctx, det.Owner, det.Repo)
		if err != nil {
			return Target{}, fmt.Errorf("%w from repo %q: %v; use --method to specify how to download", ErrAmbiguousMethod, repo, err)
		}
		det.Kind = kind
		det.CloneURL = cloneURL
	}

	target.Mode = ModeVCS
	target.Kind = det.Kind
	target.URL = det.CloneURL
	return target, nil
}
