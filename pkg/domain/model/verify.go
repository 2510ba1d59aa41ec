package model

// VerifyRequest describes a verification run over descriptor files
type VerifyRequest struct {
	Paths       []string // Files or directories holding descriptor files
	RunDotslash bool     // Execute each descriptor through dotslash
	DotslashBin string   // Path to the dotslash binary; empty looks up PATH
}

// VerifyCheck is the verification outcome of one descriptor file
type VerifyCheck struct {
	Path string // File that was checked
	Name string // Descriptor name, when it parsed at all
	Err  error  // nil when the file passed all checks
}

// VerifyResult reports the outcome of a verification run
type VerifyResult struct {
	Checks []VerifyCheck
}

// Failures returns the number of files that failed verification
func (r *VerifyResult) Failures() int {
	var n int
	for _, c := range r.Checks {
		if c.Err != nil {
			n++
		}
	}
	return n
}
