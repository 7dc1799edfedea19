package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolvePath makes p absolute relative to the project root.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectRoot, p)
}

// expandPath expands environment variables and a leading ~ in p.
// On Windows %VAR% references and a ~\ prefix are expanded too.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	p = os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		p = expandPercentVars(p)
	}
	if p != "~" && !hasHomePrefix(p) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

func hasHomePrefix(p string) bool {
	if strings.HasPrefix(p, "~/") {
		return true
	}
	return runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`)
}

// expandPercentVars replaces %NAME% with the value of NAME. Unset names
// and unpaired percent signs are kept verbatim.
func expandPercentVars(p string) string {
	parts := strings.Split(p, "%")
	if len(parts) < 3 {
		return p
	}

	var b strings.Builder
	b.WriteString(parts[0])
	for i := 1; i < len(parts); {
		if i+1 < len(parts) && parts[i] != "" {
			if val, ok := os.LookupEnv(parts[i]); ok {
				b.WriteString(val)
				b.WriteString(parts[i+1])
				i += 2
				continue
			}
		}
		b.WriteByte('%')
		b.WriteString(parts[i])
		i++
	}
	return b.String()
}
