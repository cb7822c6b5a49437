package vcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		kind  Kind
		extra []string
		want  Invocation
	}{
		{
			kind: KindGit,
			want: Invocation{Executable: "git", Args: []string{"clone", "https://example.com/r.git", "dest"}},
		},
		{
			kind:  KindGit,
			extra: []string{"--depth", "1"},
			want:  Invocation{Executable: "git", Args: []string{"clone", "https://example.com/r.git", "dest", "--depth", "1"}},
		},
		{
			kind: KindHg,
			want: Invocation{Executable: "hg", Args: []string{"clone", "https://example.com/r.git", "dest"}},
		},
		{
			kind: KindSvn,
			want: Invocation{Executable: "svn", Args: []string{"checkout", "https://example.com/r.git", "dest"}},
		},
		{
			kind: KindFossil,
			want: Invocation{Executable: "fossil", Args: []string{"clone", "https://example.com/r.git", "dest"}},
		},
	}
	for _, tt := range tests {
		got := Plan(tt.kind, "https://example.com/r.git", "dest", tt.extra)
		assert.Equal(t, tt.want, got, "kind=%s", tt.kind)
	}
}
