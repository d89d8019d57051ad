package browsers

import "context"

const DefaultFirefoxWindowsPath = `C:\Program Files\Mozilla Firefox\firefox.exe`

type Firefox struct {
	noLifecycle
	env  Environment
	Path string // executable used on Windows
}

func NewFirefox(env Environment) Browser {
	return &Firefox{env: env, Path: DefaultFirefoxWindowsPath}
}

func (f *Firefox) Supported() bool {
	h := f.env.Host
	return h.MacOS() || h.Windows() || h.Linux()
}

func (f *Firefox) Visit(ctx context.Context, url string) error {
	switch {
	case f.env.Host.MacOS():
		return f.env.Runner.Run(ctx, "open", "-g", "-b", "org.mozilla.firefox", url)
	case f.env.Host.Windows():
		return f.env.Runner.Start(f.Path, url)
	case f.env.Host.Linux():
		return f.env.Runner.Start("firefox", url)
	}
	return nil
}

func (f *Firefox) String() string { return "Firefox" }
