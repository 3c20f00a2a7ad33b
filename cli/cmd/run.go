package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/perceptia/perceptia/daemon"
	"github.com/perceptia/perceptia/pkg/config"
	"github.com/perceptia/perceptia/pkg/geom"
	"github.com/perceptia/perceptia/remote"
)

func newCmdRun() *cobra.Command {
	var (
		configDirs    []string
		adminAddr     string
		remoteAddr    string
		enablePprof   bool
		virtualOutput string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the compositor",
		Long: `Run the compositor.

Configuration is read from /etc/perceptia/*.conf and the user
configuration directory, later files overriding earlier ones.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(configDirs) == 0 {
				configDirs = config.DefaultDirs()
			}
			opts := daemon.Options{
				ConfigDirs:   configDirs,
				AdminAddr:    adminAddr,
				RemoteAddr:   remoteAddr,
				EnablePprof:  enablePprof,
				RemoteServer: remote.NewServer,
			}
			if virtualOutput != "" {
				size, err := parseSize(virtualOutput)
				if err != nil {
					return err
				}
				opts.VirtualOutput = size
			}
			return daemon.New(opts).Run(context.Background())
		},
	}

	cmd.Flags().StringSliceVar(&configDirs, "config-dir", nil,
		"directories to load *.conf files from (default: system and user directories)")
	cmd.Flags().StringVar(&adminAddr, "admin-addr", ":9990",
		"address to serve metrics and probes on; empty disables the admin server")
	cmd.Flags().StringVar(&remoteAddr, "remote-addr", "",
		"address to serve the remote view API on; empty disables it")
	cmd.Flags().BoolVar(&enablePprof, "enable-pprof", false,
		"enable pprof endpoints on the admin server")
	cmd.Flags().StringVar(&virtualOutput, "virtual-output", "",
		"announce a headless output of the given WxH size, e.g. 1920x1080")
	return cmd
}

func parseSize(value string) (geom.Size, error) {
	parts := strings.SplitN(strings.ToLower(value), "x", 2)
	if len(parts) != 2 {
		return geom.Size{}, fmt.Errorf("invalid size %q, expected WxH", value)
	}
	var width, height uint
	if _, err := fmt.Sscanf(parts[0], "%d", &width); err != nil {
		return geom.Size{}, fmt.Errorf("invalid width in %q", value)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &height); err != nil {
		return geom.Size{}, fmt.Errorf("invalid height in %q", value)
	}
	return geom.NewSize(width, height), nil
}
