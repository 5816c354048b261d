package main

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

// Version is the release of this binary. Overridden at build time with
// -ldflags "-X main.Version=...".
var Version = "0.1.0"

const repo = "wbrown/clahe"

func checkForUpdates() error {
	current, err := semver.ParseTolerant(Version)
	if err != nil {
		return fmt.Errorf("could not parse current version %q: %w", Version, err)
	}
	fmt.Printf("Current version: %s\n", current)

	latest, err := selfupdate.UpdateSelf(current, repo)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	if latest.Version.Equals(current) {
		fmt.Println("Already up to date.")
		return nil
	}
	fmt.Printf("Updated to %s\n", latest.Version)
	if latest.ReleaseNotes != "" {
		fmt.Println(latest.ReleaseNotes)
	}
	return nil
}
