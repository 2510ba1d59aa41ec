package model

// GenerateRequest describes one descriptor generation run
type GenerateRequest struct {
	Versions     []string // CPython minor versions, e.g. "3.13"
	FreeThreaded bool     // Select the no-GIL build flavors
	Tag          string   // Release tag to pin; empty means latest
	Matrix       Matrix   // Platform matrix to generate for
	OutputDir    string   // Directory to write files to; empty skips writing
	Concurrency  int      // Parallel digest fetches; <= 0 uses a default
}

// GenerateResult reports the outcome of a generation run
type GenerateResult struct {
	ReleaseTag  string        // Tag of the release the descriptors point at
	Descriptors []*Descriptor // One per requested version
	Files       []string      // Paths written, when OutputDir was set
}
