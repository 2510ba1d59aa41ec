package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Shebang is the interpreter line every descriptor file starts with
const Shebang = "#!/usr/bin/env dotslash"

// namePrefix is the common prefix of all descriptor names
const namePrefix = "cpython-"

// AllowedFormats are the archive formats dotslash can extract
var AllowedFormats = []string{"tar.gz", "tar.zst"}

// Provider names one download source for an artifact
type Provider struct {
	URL string `json:"url"`
}

// Artifact is the per-platform entry of a descriptor. Field order follows
// the sorted-key JSON layout of the published files.
type Artifact struct {
	// Arg0 makes dotslash execute the real binary path so the interpreter
	// can locate its stdlib on linux/macos; ignored on windows
	Arg0      string     `json:"arg0"`
	Digest    string     `json:"digest"`
	Format    string     `json:"format"`
	Hash      string     `json:"hash"`
	Path      string     `json:"path"`
	Providers []Provider `json:"providers"`
	Size      int64      `json:"size"`
}

// Descriptor is a dotslash file: a named map of platform keys to artifacts
type Descriptor struct {
	Name      string              `json:"name"`
	Platforms map[string]Artifact `json:"platforms"`
}

// DescriptorName builds the descriptor name for a CPython version.
// Free-threaded builds carry a "t" suffix, e.g. "cpython-3.13t".
func DescriptorName(version string, freeThreaded bool) string {
	name := namePrefix + version
	if freeThreaded {
		name += "t"
	}
	return name
}

// VersionInfo extracts the CPython version and free-threaded flag encoded
// in the descriptor name
func (d *Descriptor) VersionInfo() (version string, freeThreaded bool, err error) {
	rest, ok := strings.CutPrefix(d.Name, namePrefix)
	if !ok {
		return "", false, goerr.New("descriptor name lacks cpython prefix",
			goerr.V("name", d.Name))
	}
	if version, ok = strings.CutSuffix(rest, "t"); ok {
		freeThreaded = true
	} else {
		version = rest
	}
	if version == "" {
		return "", false, goerr.New("descriptor name lacks version",
			goerr.V("name", d.Name))
	}
	return version, freeThreaded, nil
}

// ArchiveFormat returns the dotslash format of a download URL, or an error
// if the archive type is not supported by dotslash
func ArchiveFormat(url string) (string, error) {
	for _, format := range AllowedFormats {
		if strings.HasSuffix(url, "."+format) {
			return format, nil
		}
	}
	return "", goerr.New("archive format not supported by dotslash",
		goerr.V("url", url),
		goerr.V("allowed", AllowedFormats),
	)
}

// Render serializes the descriptor as an executable dotslash file: shebang,
// blank line, then the JSON body with 2-space indent and sorted keys
func (d *Descriptor) Render() ([]byte, error) {
	body, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal descriptor",
			goerr.V("name", d.Name))
	}

	var buf bytes.Buffer
	buf.WriteString(Shebang)
	buf.WriteString("\n\n")
	buf.Write(body)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// ParseDescriptor is the inverse of Render: it checks the shebang line and
// decodes the JSON body
func ParseDescriptor(data []byte) (*Descriptor, error) {
	header, body, found := bytes.Cut(data, []byte("\n"))
	if !found {
		return nil, goerr.New("descriptor has no body")
	}
	if strings.TrimRight(string(header), "\r") != Shebang {
		return nil, goerr.New("descriptor is missing dotslash shebang",
			goerr.V("header", string(header)))
	}

	var d Descriptor
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal descriptor body")
	}
	return &d, nil
}

// Validate checks the structural invariants of a descriptor: a versioned
// name, at least one platform, and a complete artifact entry per platform
func (d *Descriptor) Validate() error {
	if _, _, err := d.VersionInfo(); err != nil {
		return err
	}
	if len(d.Platforms) == 0 {
		return goerr.New("descriptor has no platforms", goerr.V("name", d.Name))
	}

	for platform, artifact := range d.Platforms {
		if err := artifact.validate(); err != nil {
			return goerr.Wrap(err, "invalid artifact entry",
				goerr.V("name", d.Name),
				goerr.V("platform", platform),
			)
		}
	}
	return nil
}

func (a *Artifact) validate() error {
	if a.Hash != "sha256" {
		return goerr.New("unsupported hash algorithm", goerr.V("hash", a.Hash))
	}
	if !isHexDigest(a.Digest) {
		return goerr.New("digest is not a sha256 hex string", goerr.V("digest", a.Digest))
	}
	if _, err := formatAllowed(a.Format); err != nil {
		return err
	}
	if a.Path == "" {
		return goerr.New("artifact path is empty")
	}
	if a.Size <= 0 {
		return goerr.New("artifact size must be positive", goerr.V("size", a.Size))
	}
	if len(a.Providers) == 0 {
		return goerr.New("artifact has no providers")
	}
	for _, p := range a.Providers {
		if !strings.HasPrefix(p.URL, "https://") {
			return goerr.New("provider URL is not https", goerr.V("url", p.URL))
		}
	}
	return nil
}

func formatAllowed(format string) (string, error) {
	for _, allowed := range AllowedFormats {
		if format == allowed {
			return format, nil
		}
	}
	return "", goerr.New("unknown archive format",
		goerr.V("format", format),
		goerr.V("allowed", AllowedFormats),
	)
}

func isHexDigest(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
