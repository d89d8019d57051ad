package suitedef

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/launchdarkly/js-browser-tests/framework/harness"
	"github.com/launchdarkly/js-browser-tests/jstest"
)

// Suite is the contents of a suite file: which tests to run in which browsers, and how.
//
//	name: prototype
//	port: 4711
//	timeout: 30s
//	rootDir: ..
//	tests: [ajax, dom, form]
//	browsers: [firefox, safari]
//	mounts:
//	  - path: /dist
//	  - path: /test
//	customBrowsers:
//	  - name: Epiphany
//	    os: [linux]
//	    visit: [epiphany, "{url}"]
//	    background: true
type Suite struct {
	Name               string          `yaml:"name"`
	Host               string          `yaml:"host"`
	Port               int             `yaml:"port"`
	Timeout            Duration        `yaml:"timeout"`
	AlwaysCloseWindows bool            `yaml:"alwaysCloseWindows"`
	RootDir            string          `yaml:"rootDir"`
	TestPathFormat     string          `yaml:"testPathFormat"`
	Tests              []string        `yaml:"tests"`
	Browsers           []string        `yaml:"browsers"`
	CustomBrowsers     []CustomBrowser `yaml:"customBrowsers"`
	Mounts             []Mount         `yaml:"mounts"`
}

// CustomBrowser defines a browser by the commands that drive it. Arguments may contain
// "{url}", which is replaced with the page URL.
type CustomBrowser struct {
	Name       string   `yaml:"name"`
	OS         []string `yaml:"os"`
	Setup      []string `yaml:"setup"`
	Visit      []string `yaml:"visit"`
	Teardown   []string `yaml:"teardown"`
	Background bool     `yaml:"background"`
}

// Mount serves a directory at a URL path. If Dir is empty, the directory is the same path
// under the root directory.
type Mount struct {
	Path string `yaml:"path"`
	Dir  string `yaml:"dir"`
}

// Duration accepts either a Go duration string such as "45s" or a number of seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}
	if secs, err := strconv.ParseFloat(value.Value, 64); err == nil {
		*d = Duration(secs * float64(time.Second))
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q", value.Line, value.Value)
	}
	*d = Duration(parsed)
	return nil
}

// Load reads a suite file. A relative rootDir, and relative mount directories, are resolved
// against the directory containing the file.
func Load(path string) (Suite, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Suite{}, fmt.Errorf("could not read suite file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return Suite{}, fmt.Errorf("invalid suite file %s: %w", path, err)
	}
	base := filepath.Dir(path)
	if s.RootDir == "" {
		s.RootDir = base
	} else if !filepath.IsAbs(s.RootDir) {
		s.RootDir = filepath.Join(base, s.RootDir)
	}
	for i, m := range s.Mounts {
		if m.Dir != "" && !filepath.IsAbs(m.Dir) {
			s.Mounts[i].Dir = filepath.Join(base, m.Dir)
		}
	}
	return s, nil
}

// Parse decodes a suite from YAML. Unknown keys are an error.
func Parse(data []byte) (Suite, error) {
	var s Suite
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Suite{}, err
	}
	if err := s.Validate(); err != nil {
		return Suite{}, err
	}
	return s, nil
}

func (s Suite) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("port %d is out of range", s.Port)
	}
	if s.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}
	for i, t := range s.Tests {
		if t == "" {
			return fmt.Errorf("tests[%d] is empty", i)
		}
	}
	mounted := make(map[string]bool)
	for i, m := range s.Mounts {
		if m.Path == "" {
			return fmt.Errorf("mounts[%d] has no path", i)
		}
		prefix := harness.MountPrefix(m.Path)
		if prefix == jstest.ResultsPath {
			return fmt.Errorf("mounts[%d]: %s is reserved for test results", i, prefix)
		}
		if mounted[prefix] {
			return fmt.Errorf("mounts[%d]: %s is mounted twice", i, prefix)
		}
		mounted[prefix] = true
	}
	seen := make(map[string]bool)
	for i, b := range s.CustomBrowsers {
		if b.Name == "" {
			return fmt.Errorf("customBrowsers[%d] has no name", i)
		}
		if len(b.Visit) == 0 {
			return fmt.Errorf("custom browser %q has no visit command", b.Name)
		}
		if seen[b.Name] {
			return fmt.Errorf("custom browser %q is defined twice", b.Name)
		}
		seen[b.Name] = true
	}
	return nil
}
