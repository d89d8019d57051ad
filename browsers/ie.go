package browsers

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar"
)

const (
	DefaultIEWindowsPath = `C:\Program Files\Internet Explorer\IEXPLORE.EXE`
	crossOverIEBundleID  = "com.codeweavers.CrossOverHelper.win98.Internet Explorer"
)

const ieWindowsNotice = `
  MAJOR ANNOYANCE on Windows.
  You have to shut down Internet Explorer manually after each test
  for the runner to proceed.
`

// IE runs Internet Explorer natively on Windows, or under CrossOver on macOS if an
// "Internet Explorer.app" bundle can be found in the user's home directory.
type IE struct {
	env       Environment
	Path      string // executable used on Windows
	crossOver struct {
		once  sync.Once
		found bool
	}
}

func NewIE(env Environment) Browser {
	return &IE{env: env, Path: DefaultIEWindowsPath}
}

func (ie *IE) Supported() bool {
	return ie.env.Host.Windows() || ie.env.Host.MacOS()
}

func (ie *IE) Setup(ctx context.Context) error {
	if ie.env.Host.Windows() {
		fmt.Fprint(ie.env.output(), ieWindowsNotice)
	}
	return nil
}

func (ie *IE) Visit(ctx context.Context, pageURL string) error {
	if ie.env.Host.Windows() {
		return ie.env.Runner.Start(ie.Path, pageURL)
	}
	if ie.hasCrossOverInstall() {
		return ie.env.Runner.Run(ctx, "open", "-g", "-b", crossOverIEBundleID, crossOverURL(pageURL))
	}
	return nil
}

func (ie *IE) Teardown(ctx context.Context) error { return nil }

func (ie *IE) String() string { return "Internet Explorer" }

func (ie *IE) hasCrossOverInstall() bool {
	if !ie.env.Host.MacOS() || ie.env.Host.HomeDir == "" {
		return false
	}
	ie.crossOver.once.Do(func() {
		matches, err := doublestar.Glob(filepath.Join(ie.env.Host.HomeDir, "**", "Internet Explorer.app"))
		ie.crossOver.found = err == nil && len(matches) > 0
	})
	return ie.crossOver.found
}

// crossOverURL rewrites the resultsURL parameter with backslashes and percent-encoding, since
// the CrossOver launcher mangles a plain URL embedded in the query string.
func crossOverURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	resultsURL := u.Query().Get("resultsURL")
	if resultsURL == "" {
		return pageURL
	}
	escaped := url.QueryEscape(strings.ReplaceAll(resultsURL, "/", `\`))
	return strings.Replace(pageURL, "resultsURL="+resultsURL, "resultsURL="+escaped, 1)
}
