package browsers

import "context"

const DefaultChromeWindowsPath = `C:\Program Files\Google\Chrome\Application\chrome.exe`

type Chrome struct {
	noLifecycle
	env  Environment
	Path string // executable used on Windows
}

func NewChrome(env Environment) Browser {
	return &Chrome{env: env, Path: DefaultChromeWindowsPath}
}

func (c *Chrome) Supported() bool {
	h := c.env.Host
	return h.MacOS() || h.Windows() || h.Linux()
}

func (c *Chrome) Visit(ctx context.Context, url string) error {
	switch {
	case c.env.Host.MacOS():
		return c.env.Runner.Run(ctx, "open", "-g", "-b", "com.google.Chrome", url)
	case c.env.Host.Windows():
		return c.env.Runner.Start(c.Path, url)
	case c.env.Host.Linux():
		return c.env.Runner.Start("google-chrome", url)
	}
	return nil
}

func (c *Chrome) String() string { return "Chrome" }
