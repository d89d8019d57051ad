package browsers

import (
	"context"
	"fmt"
	"strings"
)

func runAppleScript(ctx context.Context, env Environment, script string) error {
	if !env.Host.MacOS() {
		return fmt.Errorf("can't run AppleScript on %s", env.Host.OS)
	}
	return env.Runner.Run(ctx, "osascript", "-e", script)
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
