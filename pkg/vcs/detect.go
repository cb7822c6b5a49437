package vcs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"regexp"
	"strings"

	"github.com/ehuss/cargo-clone-crate/pkg/http"
)

// Kind names a version control tool the planner knows how to drive.
type Kind string

const (
	KindGit    Kind = "git"
	KindHg     Kind = "hg"
	KindPijul  Kind = "pijul"
	KindFossil Kind = "fossil"
	KindSvn    Kind = "svn"
)

// ParseKind maps a user-supplied method name to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindGit, KindHg, KindPijul, KindFossil, KindSvn:
		return Kind(s), true
	}
	return "", false
}

var (
	githubPattern    = regexp.MustCompile(`^https?://(?:www\.)?github\.com/([^/]+)/([^/]+)`)
	gitlabPattern    = regexp.MustCompile(`^https?://(?:www\.)?gitlab\.com/([^/]+)/([^/]+)`)
	bitbucketPattern = regexp.MustCompile(`^https?://(?:www\.)?bitbucket\.(?:org|com)/([^/]+)/([^/]+)`)
)

// Detection is the result of inspecting a repository URL's shape.
type Detection struct {
	Kind     Kind
	CloneURL string

	// NeedsProbe is set for bitbucket URLs, whose VCS cannot be read off
	// the URL alone; ProbeBitbucket resolves Owner/Repo to a Kind.
	NeedsProbe bool
	Owner      string
	Repo       string
}

// Detect guesses the VCS kind from the shape of a repository URL. It is a
// pure function; ok is false when no kind can be confidently inferred and
// the caller should ask the user for an explicit method.
func Detect(repo string) (Detection, bool) {
	if strings.HasSuffix(repo, ".git") {
		return Detection{Kind: KindGit, CloneURL: repo}, true
	}
	if m := githubPattern.FindStringSubmatch(repo); m != nil {
		return Detection{Kind: KindGit, CloneURL: fmt.Sprintf("https://github.com/%s/%s.git", m[1], m[2])}, true
	}
	if m := gitlabPattern.FindStringSubmatch(repo); m != nil {
		return Detection{Kind: KindGit, CloneURL: fmt.Sprintf("https://gitlab.com/%s/%s.git", m[1], m[2])}, true
	}
	if m := bitbucketPattern.FindStringSubmatch(repo); m != nil {
		return Detection{NeedsProbe: true, Owner: m[1], Repo: m[2]}, true
	}
	if strings.HasPrefix(repo, "https://nest.pijul.com/") {
		return Detection{Kind: KindPijul, CloneURL: repo}, true
	}
	return Detection{}, false
}

type bitbucketRepo struct {
	SCM   string `json:"scm"`
	Links struct {
		Clone []struct {
			Name string `json:"name"`
			Href string `json:"href"`
		} `json:"clone"`
	} `json:"links"`
}

// ProbeBitbucket asks the bitbucket API whether a repository is git or hg
// and returns the https clone URL it advertises.
func ProbeBitbucket(ctx context.Context, client *http.RLHTTPClient, owner, repo string) (Kind, string, error) {
	url := fmt.Sprintf("https://api.bitbucket.org/2.0/repositories/%s/%s", owner, repo)
	resp, err := client.Get(ctx, url)
	if err != nil {
		return "", "", fmt.Errorf("fetching repo info from bitbucket: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		return "", "", fmt.Errorf("bitbucket API %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("reading bitbucket response: %w", err)
	}
	return decodeBitbucketRepo(body)
}

func decodeBitbucketRepo(body []byte) (Kind, string, error) {
	var info bitbucketRepo
	if err := json.Unmarshal(body, &info); err != nil {
		return "", "", fmt.Errorf("decoding bitbucket response: %w", err)
	}

	var kind Kind
	switch info.SCM {
	case "git":
		kind = KindGit
	case "hg":
		kind = KindHg
	default:
		return "", "", fmt.Errorf("unexpected bitbucket scm %q", info.SCM)
	}

	for _, c := range info.Links.Clone {
		if c.Name == "https" {
			return kind, c.Href, nil
		}
	}
	return "", "", fmt.Errorf("no https clone link in bitbucket response")
}
