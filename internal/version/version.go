// Package version holds build metadata. The variables are overridden at
// build time via -ldflags.
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the plain semantic version.
	Version = "0.3.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Colored renders Version with each numeric part highlighted. Color output
// follows fatih/color's NoColor switch.
func Colored() string {
	core, pre, hasPre := strings.Cut(Version, "-")
	colors := []*color.Color{versionMajorColor, versionMinorColor, versionPatchColor}
	parts := strings.SplitN(core, ".", len(colors))
	for i, p := range parts {
		parts[i] = colors[i].Sprint(p)
	}
	out := strings.Join(parts, ".")
	if hasPre {
		out += "-" + pre
	}
	return out
}
