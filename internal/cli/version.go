package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information set at build time via ldflags.
// Example: go build -ldflags "-X image-transform-api/internal/cli.Version=v1.0.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := versionInfo{
				Version:   Version,
				Commit:    Commit,
				BuildDate: BuildDate,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}

			if a.jsonOutput {
				return json.NewEncoder(a.stdout).Encode(info)
			}

			fmt.Fprintf(a.stdout, "imagectl %s\n", info.Version)
			fmt.Fprintf(a.stdout, "  commit:     %s\n", info.Commit)
			fmt.Fprintf(a.stdout, "  built:      %s\n", info.BuildDate)
			fmt.Fprintf(a.stdout, "  go version: %s\n", info.GoVersion)
			fmt.Fprintf(a.stdout, "  platform:   %s\n", info.Platform)
			return nil
		},
	}
}
