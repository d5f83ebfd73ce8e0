package cmd

import (
	"github.com/spf13/cobra"

	"github.com/splashd/splashd/internal/boot"
)

// holdCmd is spawned by the pid 1 path with the DRM device inherited as
// fd 3. It exists only to keep that fd open while the real init runs.
var holdCmd = &cobra.Command{
	Use:    "hold",
	Short:  "Keep the display device open",
	Hidden: true,
	Run: func(cmd *cobra.Command, args []string) {
		boot.Hold()
	},
}
