package browsers

import "context"

type Konqueror struct {
	noLifecycle
	env Environment
}

func NewKonqueror(env Environment) Browser {
	return &Konqueror{env: env}
}

func (k *Konqueror) Supported() bool {
	return k.env.Host.Linux()
}

func (k *Konqueror) Visit(ctx context.Context, url string) error {
	return k.env.Runner.Run(ctx, "kfmclient", "openURL", url)
}

func (k *Konqueror) String() string { return "Konqueror" }
