package domain

// CommonOptions contains shared configuration options for the orchestrator
// and the CLI.
type CommonOptions struct {
	Verbose bool
	DryRun  bool
	Force   bool
	Resume  bool
}

// DefaultCommonOptions returns CommonOptions with default values.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{Resume: true}
}
