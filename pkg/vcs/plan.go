package vcs

// Invocation is a fully planned external checkout command. Planning and
// execution are split so the decision logic stays testable without running
// anything.
type Invocation struct {
	Executable string
	Args       []string
}

// Plan builds the checkout invocation for a repository. The destination
// directory follows the URL in every supported tool's argument convention;
// extra is passed through verbatim after the required arguments.
func Plan(kind Kind, url, dest string, extra []string) Invocation {
	subcommand := "clone"
	if kind == KindSvn {
		subcommand = "checkout"
	}

	args := []string{subcommand, url, dest}
	args = append(args, extra...)
	return Invocation{
		Executable: string(kind),
		Args:       args,
	}
}
