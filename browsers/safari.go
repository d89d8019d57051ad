package browsers

import "context"

// Safari is driven entirely through AppleScript, so each step gets its own document.
type Safari struct {
	env Environment
}

func NewSafari(env Environment) Browser {
	return &Safari{env: env}
}

func (s *Safari) Supported() bool {
	return s.env.Host.MacOS()
}

func (s *Safari) Setup(ctx context.Context) error {
	return runAppleScript(ctx, s.env, `tell application "Safari" to make new document`)
}

func (s *Safari) Visit(ctx context.Context, url string) error {
	return runAppleScript(ctx, s.env,
		`tell application "Safari" to set URL of front document to `+appleScriptString(url))
}

func (s *Safari) Teardown(ctx context.Context) error {
	return runAppleScript(ctx, s.env, `tell application "Safari" to close front document`)
}

func (s *Safari) String() string { return "Safari" }
