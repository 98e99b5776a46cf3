// Package volume decides whether a path lives on a local or a network volume.
//
// Classification is purely lexical and may be wrong on exotic mount setups;
// callers fall back to direct removal when a trash call fails on a
// misclassified path.
package volume

import "strings"

// Kind is the classified volume type of a path.
type Kind int

const (
	Local Kind = iota
	Network
)

func (k Kind) String() string {
	if k == Network {
		return "network"
	}
	return "local"
}

// Classifier holds the lexical classification rules.
type Classifier struct {
	// DriveThreshold is the first Windows drive letter considered a
	// network mapping; earlier letters are local, so C: is local whenever
	// the threshold is above it.
	DriveThreshold byte
}

// Default is the process-wide classifier with the stock rules.
var Default = Classifier{DriveThreshold: 'D'}

// Classify reports the volume kind of a canonical path.
func (c Classifier) Classify(path string) Kind {
	// macOS: mounted volumes appear under /Volumes, except the boot volume.
	if strings.HasPrefix(path, "/Volumes/") && !strings.HasPrefix(path, "/Volumes/Macintosh") {
		return Network
	}

	// Windows UNC path.
	if strings.HasPrefix(path, `\\`) {
		return Network
	}

	// Windows drive letter at or beyond the threshold.
	if len(path) >= 2 && path[1] == ':' {
		letter := path[0] &^ 0x20 // uppercase
		if letter >= c.DriveThreshold && letter <= 'Z' {
			return Network
		}
	}

	return Local
}

// IsNetwork reports whether path classifies as a network volume under the
// default rules.
func IsNetwork(path string) bool {
	return Default.Classify(path) == Network
}
