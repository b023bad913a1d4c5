package spec

import (
	"strings"

	"github.com/josephgoksu/officekit/internal/utils"
)

// Office hosts the copilot knows how to generate code for.
const (
	HostExcel      = "Excel"
	HostWord       = "Word"
	HostPowerPoint = "PowerPoint"
	HostOutlook    = "Outlook"
)

var knownHosts = map[string]string{
	"excel":      HostExcel,
	"word":       HostWord,
	"powerpoint": HostPowerPoint,
	"outlook":    HostOutlook,
}

// NormalizeHost maps model spellings ("excel", "POWERPOINT") to canonical host
// names. Unknown hosts are title-cased.
func NormalizeHost(host string) string {
	key := strings.ToLower(strings.TrimSpace(host))
	if canonical, ok := knownHosts[key]; ok {
		return canonical
	}
	return utils.ToTitle(host)
}

// IsKnownHost reports whether host (any casing) is a supported Office host.
func IsKnownHost(host string) bool {
	_, ok := knownHosts[strings.ToLower(strings.TrimSpace(host))]
	return ok
}
