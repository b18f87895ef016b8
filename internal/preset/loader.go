package preset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/xtding233/orbsim/internal/gacha"
)

// ErrUnknownBanner is returned for a name that is neither built in nor on disk.
var ErrUnknownBanner = errors.New("unknown banner")

// Paths helper for defaults/banner/goal files.
type Paths struct {
	BaseDir string // e.g. /etc/orbsim; empty means built-ins only
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "defaults.yaml")
}
func (p Paths) BannerDir() string {
	return filepath.Join(p.BaseDir, "banners")
}
func (p Paths) BannerPath(name string) string {
	return filepath.Join(p.BannerDir(), name+".yaml")
}
func (p Paths) GoalDir() string {
	return filepath.Join(p.BaseDir, "goals")
}
func (p Paths) GoalPath(name string) string {
	return filepath.Join(p.GoalDir(), name+".yaml")
}

// Loader reads banner YAML and merges defaults -> built-in -> banner file.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]*gacha.BannerConfig
	gen   uint64 // bumped by Invalidate

	resolved func(name string) // test hook, runs before the cache write
}

// NewLoader creates a loader rooted at baseDir.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]*gacha.BannerConfig),
	}
}

func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged returns the merged RawConfig for a banner, without validation.
func (l *Loader) LoadMerged(name string) (RawConfig, error) {
	if strings.ContainsAny(name, `/\`) || name == "" || name == "." || name == ".." {
		return RawConfig{}, fmt.Errorf("%w: %q", ErrUnknownBanner, name)
	}
	var defCfg, fileCfg RawConfig
	var found bool
	if l.paths.BaseDir != "" {
		var err error
		if defCfg, _, err = readYAML(l.paths.DefaultPath()); err != nil {
			return RawConfig{}, fmt.Errorf("read defaults: %w", err)
		}
		if fileCfg, found, err = readYAML(l.paths.BannerPath(name)); err != nil {
			return RawConfig{}, fmt.Errorf("read banner %s: %w", name, err)
		}
	}
	builtin, ok := Builtin(name)
	if !ok && !found {
		return RawConfig{}, fmt.Errorf("%w: %q", ErrUnknownBanner, name)
	}

	// Merge: defaults <- built-in <- file
	merged := mergeRaw(defCfg, builtin)
	merged = mergeRaw(merged, fileCfg)
	if merged.Name == "" {
		merged.Name = name
	}
	return merged, nil
}

// Banner loads, validates and resolves a banner. Results are cached until Invalidate.
func (l *Loader) Banner(name string) (*gacha.BannerConfig, error) {
	l.mu.RLock()
	if b, ok := l.cache[name]; ok {
		l.mu.RUnlock()
		return b, nil
	}
	gen := l.gen
	l.mu.RUnlock()

	raw, err := l.LoadMerged(name)
	if err != nil {
		return nil, err
	}
	b, err := Resolve(raw)
	if err != nil {
		return nil, fmt.Errorf("banner %s: %w", name, err)
	}

	if l.resolved != nil {
		l.resolved(name)
	}

	// a config read before an Invalidate must not outlive it in the cache
	l.mu.Lock()
	if l.gen == gen {
		l.cache[name] = b
	}
	l.mu.Unlock()
	return b, nil
}

// Names lists built-in banners and banner files, sorted.
func (l *Loader) Names() []string {
	set := map[string]bool{}
	for _, n := range BuiltinNames() {
		set[n] = true
	}
	if l.paths.BaseDir != "" {
		files, _ := filepath.Glob(filepath.Join(l.paths.BannerDir(), "*.yaml"))
		for _, f := range files {
			set[strings.TrimSuffix(filepath.Base(f), ".yaml")] = true
		}
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Goal loads goals/<name>.yaml, or a path to a YAML file when name has an extension.
func (l *Loader) Goal(name string) (gacha.Goal, error) {
	path := name
	if filepath.Ext(name) == "" {
		path = l.paths.GoalPath(name)
	}
	return LoadGoalFile(path)
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]*gacha.BannerConfig)
	l.gen++
}

// LoadGoalFile reads a goal YAML file.
func LoadGoalFile(path string) (gacha.Goal, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return gacha.Goal{}, fmt.Errorf("read goal: %w", err)
	}
	var cfg GoalCfg
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return gacha.Goal{}, fmt.Errorf("parse goal %s: %w", path, err)
	}
	return cfg.Goal()
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func readYAML(path string) (RawConfig, bool, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, false, nil
		}
		return RawConfig{}, false, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, false, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, true, nil
}

// Layer returns over applied on top of base, the same way banner files are
// layered over built-in presets.
func Layer(base, over RawConfig) RawConfig { return mergeRaw(base, over) }

// mergeRaw performs a deep merge: 'b' overrides 'a' where set.
// Guarantee tables are replaced, not merged.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Name != "" {
		out.Name = b.Name
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	if b.FillerRate != nil {
		out.FillerRate = b.FillerRate
	}
	if b.Path != nil {
		p := *b.Path
		out.Path = &p
	}

	// cost
	switch {
	case out.Cost == nil && b.Cost != nil:
		c := *b.Cost
		out.Cost = &c
	case out.Cost != nil && b.Cost != nil:
		c := *out.Cost
		if b.Cost.Name != "" {
			c.Name = b.Cost.Name
		}
		if b.Cost.PerPull != nil {
			c.PerPull = b.Cost.PerPull
		}
		out.Cost = &c
	}

	out.Five = mergeTier(out.Five, b.Five)
	out.Four = mergeTier(out.Four, b.Four)
	return out
}

func mergeTier(a, b *TierCfg) *TierCfg {
	if b == nil {
		return a
	}
	if a == nil {
		c := *b
		return &c
	}
	c := *a
	if b.BaseRate != nil {
		c.BaseRate = b.BaseRate
	}
	if b.SoftStart != nil {
		c.SoftStart = b.SoftStart
	}
	if b.Increment != nil {
		c.Increment = b.Increment
	}
	if b.HardPity != nil {
		c.HardPity = b.HardPity
	}
	if b.FocusRate != nil {
		c.FocusRate = b.FocusRate
	}
	if b.FocusCharacters != nil {
		c.FocusCharacters = b.FocusCharacters
	}
	if b.FocusWeapons != nil {
		c.FocusWeapons = b.FocusWeapons
	}
	if b.Guarantee != nil {
		g := GuaranteeCfg{Threshold: b.Guarantee.Threshold, Table: append([]float64(nil), b.Guarantee.Table...)}
		c.Guarantee = &g
	}
	return &c
}
