package model

// BuildArguments is the derived, immutable set of arguments passed to the
// build toolchain for one scheme build. It is computed from the project,
// target and configuration at build time and never stored on the graph.
type BuildArguments struct {
	ProjectPath   string
	Configuration string
	Platform      Platform
	SkipSigning   bool
}

// List renders the arguments in the order the toolchain expects. The
// configuration is omitted when none was explicitly selected, leaving the
// choice to the scheme's own default.
func (a BuildArguments) List() []string {
	var args []string
	if a.Configuration != "" {
		args = append(args, "-configuration", a.Configuration)
	}
	if sdk := a.Platform.SDKDirectory(); sdk != "" {
		args = append(args, "-sdk", sdk)
	}
	if a.SkipSigning {
		args = append(args,
			"CODE_SIGN_IDENTITY=",
			"CODE_SIGNING_REQUIRED=NO",
			"CODE_SIGNING_ALLOWED=NO",
		)
	}
	return args
}
