package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-version"
	"github.com/nulzo/image-playground/internal/cli"
	"github.com/nulzo/image-playground/internal/httpclient"
	"github.com/spf13/cobra"
)

// AppVersion is set at build time with -ldflags.
var AppVersion = "v0.0.0"

const releasesURL = "https://api.github.com/repos/nulzo/image-playground/releases/latest"

var versionCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and optionally check for a newer release",
	Args:  cobra.NoArgs,
	// no config or logger needed
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "Check GitHub for a newer release")
}

type gitHubRelease struct {
	TagName string `json:"tag_name"`
}

func runVersion(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "playground %s\n", AppVersion)
	if !versionCheck {
		return nil
	}

	latest, newer, err := checkForUpdates(cmd.Context(), &http.Client{Timeout: 2 * time.Second}, releasesURL, AppVersion)
	if err != nil {
		return fmt.Errorf("update check: %w", err)
	}
	if newer {
		fmt.Fprintln(out, cli.Style(fmt.Sprintf("A newer version is available: %s", latest), cli.Yellow))
	} else {
		fmt.Fprintf(out, "%s Up to date\n", cli.CheckMark())
	}
	return nil
}

// checkForUpdates reports the latest release tag and whether it is newer
// than current.
func checkForUpdates(ctx context.Context, client httpclient.HTTPClient, url, current string) (string, bool, error) {
	var release gitHubRelease
	headers := map[string]string{"Accept": "application/vnd.github+json"}
	if err := httpclient.SendRequest(ctx, client, http.MethodGet, url, headers, nil, &release); err != nil {
		return "", false, err
	}

	cur, err := version.NewVersion(current)
	if err != nil {
		return "", false, fmt.Errorf("current version %q: %w", current, err)
	}
	latest, err := version.NewVersion(release.TagName)
	if err != nil {
		return "", false, fmt.Errorf("release tag %q: %w", release.TagName, err)
	}
	return release.TagName, cur.LessThan(latest), nil
}
