package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ehuss/cargo-clone-crate/pkg/clone"
)

func cmdClone() *cobra.Command {
	p := &cloneParams{}
	cmd := &cobra.Command{
		Use:   "clone SPEC [DEST] [-- VCS_ARGS...]",
		Short: "Clone a package from the registry",
		Long: `Clone a package from the registry.

SPEC identifies the crate, optionally with a version requirement:

    cargo-clone clone serde
    cargo-clone clone serde:^1.0
    cargo-clone clone serde@1.0.104

By default the retrieval method is detected from the crate's repository URL,
falling back to downloading the registry archive. A version requirement
always downloads the archive for the selected version, since a checkout
tracks branch tips rather than published versions.

Arguments after "--" are passed through to the VCS tool verbatim:

    cargo-clone clone tokio -- --depth 1
`,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			positional := args
			var extra []string
			if at := cmd.ArgsLenAtDash(); at >= 0 {
				positional, extra = args[:at], args[at:]
			}
			switch len(positional) {
			case 1, 2:
			case 0:
				return fmt.Errorf("missing package spec")
			default:
				return fmt.Errorf("expected SPEC and optional DEST, got %d arguments", len(positional))
			}

			method, err := clone.ParseMethod(p.method)
			if err != nil {
				return err
			}

			opts := clone.Options{
				Spec:      positional[0],
				Version:   p.version,
				Method:    method,
				ExtraArgs: extra,
			}
			if len(positional) == 2 {
				opts.Dest = positional[1]
			}

			return clone.New(p.registry).Clone(cmd.Context(), opts)
		},
	}

	p.addFlagsTo(cmd)
	return cmd
}

type cloneParams struct {
	method   string
	version  string
	registry string
}

func (p *cloneParams) addFlagsTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.method, "method", "m", "auto", "Method to fetch the package (auto, crate, git, hg, pijul, fossil, svn)")
	cmd.Flags().StringVar(&p.version, "version", "", "Version requirement to download")
	cmd.Flags().StringVar(&p.registry, "registry", "", "Registry base URL (defaults to crates.io)")
}
