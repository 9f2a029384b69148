package cmd

import (
	"fmt"

	"asset-resynch/core/aem"
	"asset-resynch/core/config"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// aemFlags are the connection and engine flags shared by every command that talks to AEM.
type aemFlags struct {
	author        string
	publish       string
	user          string
	password      string
	proxy         string
	allowInsecure bool
	path          string
	workers       int
	strictStatus  bool
	cassette      string
}

func (f *aemFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.author, "author", "", "Author instance URL, e.g. https://author.example.com")
	fs.StringVar(&f.publish, "publish", "", "Publish instance URL, e.g. https://publish.example.com")
	fs.StringVar(&f.user, "user", "", "User for both instances")
	fs.StringVar(&f.password, "password", "", "Password for both instances")
	fs.StringVar(&f.proxy, "proxy", "", "HTTP(S) proxy URL (disables TLS verification)")
	fs.BoolVar(&f.allowInsecure, "allow-insecure", false, "Skip TLS certificate verification")
	fs.StringVar(&f.path, "path", "", "Start path below /content/dam, e.g. /myfolder")
	fs.IntVar(&f.workers, "workers", 1, "Concurrent requests during traversal and status lookups")
	fs.BoolVar(&f.strictStatus, "strict-status", false, "Skip assets whose activation status cannot be read")
	fs.StringVar(&f.cassette, "cassette", "", "Record and replay HTTP traffic through a go-vcr cassette")
}

// apply overrides cfg with every flag set on the command line.
func (f *aemFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("author") {
		cfg.AEM.AuthorURL = f.author
	}
	if changed("publish") {
		cfg.AEM.PublishURL = f.publish
	}
	if changed("user") {
		cfg.AEM.User = f.user
	}
	if changed("password") {
		cfg.AEM.Password = f.password
	}
	if changed("proxy") {
		cfg.AEM.Proxy = f.proxy
	}
	if changed("allow-insecure") {
		cfg.AEM.AllowInsecure = f.allowInsecure
	}
	if changed("path") {
		cfg.Resynch.StartPath = f.path
	}
	if changed("workers") {
		cfg.Resynch.Workers = f.workers
	}
	if changed("strict-status") {
		cfg.Resynch.StrictStatus = f.strictStatus
	}
}

// newAPI builds the AEM client. When a cassette is configured the returned stop
// function flushes it and must be called once the command is done.
func (f *aemFlags) newAPI(cfg *config.Config) (*aem.API, func(), error) {
	api, err := aem.NewAPI(cfg.AEM)
	if err != nil {
		return nil, nil, err
	}
	if f.cassette == "" {
		return api, func() {}, nil
	}

	name, err := homedir.Expand(f.cassette)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to expand cassette path: %w", err)
	}
	r, err := aem.NewRecorder(name, api.Client.Transport)
	if err != nil {
		return nil, nil, err
	}
	api.UseRecorder(r)

	return api, func() { _ = r.Stop() }, nil
}
