// Package footprint canonicalizes KiCad footprint identifiers into compact
// BOM-friendly tokens. The matching tables are configuration data: the
// defaults cover the common SMD and small-IC libraries, and alternate
// tables can be loaded from a YAML file.
package footprint

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules holds the canonicalization tables applied to raw footprint strings
type Rules struct {
	// SMDSizes are chip size codes like "0402" that combine with a type
	// prefix into tokens like "R_0402"
	SMDSizes []string `yaml:"smd_sizes"`

	// SMDPrefixes are type prefixes combined with SMDSizes ("R", "C", ...)
	SMDPrefixes []string `yaml:"smd_prefixes"`

	// ICPackages are package tokens matched verbatim, like "SOT-23-3".
	// Longer names must come before their prefixes (e.g. "SOT-23-5"
	// before "SOT-23") so the most specific token wins.
	ICPackages []string `yaml:"ic_packages"`

	// Ignore lists library/category segments dropped from the output
	Ignore []string `yaml:"ignore"`
}

// DefaultRules returns the built-in canonicalization tables
func DefaultRules() *Rules {
	return &Rules{
		SMDSizes:    []string{"0402", "0603", "0805", "1008", "1206", "1210"},
		SMDPrefixes: []string{"LED", "R", "C", "L", "Fuse"},
		ICPackages:  []string{"SOT-23-3", "SOT-23-5", "SOT-23-6", "SOT-89-3", "SOT-23"},
		Ignore: []string{
			"Custom Library",
			"footprints",
			"Capacitor_THT",
			"Diode_SMD",
			"Button_Switch_SMD",
			"Package_DFN",
			"Package_DFN_QFN",
			"Package_SO",
			"Crystal",
			"Inductor_SMD",
		},
	}
}

// LoadRules reads canonicalization tables from a YAML file. Empty sections
// fall back to the defaults, so a rules file can override just one table.
func LoadRules(filename string) (*Rules, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	loaded := &Rules{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("%s: invalid rules file: %w", filename, err)
	}

	rules := DefaultRules()
	if len(loaded.SMDSizes) > 0 {
		rules.SMDSizes = loaded.SMDSizes
	}
	if len(loaded.SMDPrefixes) > 0 {
		rules.SMDPrefixes = loaded.SMDPrefixes
	}
	if len(loaded.ICPackages) > 0 {
		rules.ICPackages = loaded.ICPackages
	}
	if len(loaded.Ignore) > 0 {
		rules.Ignore = loaded.Ignore
	}
	return rules, nil
}

// Canonical reduces a raw footprint identifier like
// "Resistor_SMD:R_0402_1005Metric" to a compact token like "R_0402".
//
// The identifier is split on ":" (library:name). Ignored segments are
// dropped. Within the remaining segments, any known SMD prefix+size
// combination or IC package token is extracted; multiple matches join
// with ";". If nothing matches, the non-ignored segments pass through
// unchanged.
func (r *Rules) Canonical(raw string) string {
	segments := strings.Split(raw, ":")
	var out []string

	for _, seg := range segments {
		if r.ignored(seg) {
			continue
		}

		for _, size := range r.SMDSizes {
			for _, prefix := range r.SMDPrefixes {
				token := prefix + "_" + size
				if strings.Contains(seg, token) {
					out = append(out, token)
				}
			}
		}

		for _, pkg := range r.ICPackages {
			if strings.Contains(seg, pkg) {
				out = append(out, pkg)
				break
			}
		}
	}

	if len(out) == 0 {
		// No known tokens: return whatever was not ignored
		var kept []string
		for _, seg := range segments {
			if !r.ignored(seg) {
				kept = append(kept, seg)
			}
		}
		return strings.Join(kept, ":")
	}
	return strings.Join(out, ";")
}

func (r *Rules) ignored(segment string) bool {
	for _, ig := range r.Ignore {
		if segment == ig {
			return true
		}
	}
	return false
}
