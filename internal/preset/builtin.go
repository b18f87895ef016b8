package preset

import (
	"embed"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

var builtins = mustLoadBuiltins()

func mustLoadBuiltins() map[string]RawConfig {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		panic(err)
	}
	out := make(map[string]RawConfig, len(entries))
	for _, e := range entries {
		b, err := builtinFS.ReadFile(path.Join("builtin", e.Name()))
		if err != nil {
			panic(err)
		}
		var cfg RawConfig
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			panic("builtin " + e.Name() + ": " + err.Error())
		}
		out[strings.TrimSuffix(e.Name(), ".yaml")] = cfg
	}
	return out
}

// Builtin returns a copy of a built-in banner.
func Builtin(name string) (RawConfig, bool) {
	cfg, ok := builtins[name]
	if !ok {
		return RawConfig{}, false
	}
	// fresh top-level structs so callers can layer onto the result
	return mergeRaw(RawConfig{}, cfg), true
}

func BuiltinNames() []string {
	out := make([]string, 0, len(builtins))
	for n := range builtins {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
