package crates

import "errors"

var (
	// ErrInvalidSpec means the package spec string could not be parsed.
	ErrInvalidSpec = errors.New("invalid package spec")

	// ErrNotFound means the registry has no crate by that name.
	ErrNotFound = errors.New("crate not found")

	// ErrRegistryUnavailable covers transport failures, unexpected HTTP
	// statuses and malformed registry responses.
	ErrRegistryUnavailable = errors.New("registry unavailable")

	// ErrNoVersions means the registry returned an empty version list.
	ErrNoVersions = errors.New("crate has no versions")

	// ErrNoMatchingVersion means no published version satisfies the
	// requested version requirement.
	ErrNoMatchingVersion = errors.New("no matching version")

	// ErrDownload covers failures while fetching the crate archive.
	ErrDownload = errors.New("download failed")
)
