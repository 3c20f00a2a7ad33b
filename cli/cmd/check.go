package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	pkgcfg "github.com/perceptia/perceptia/pkg/config"
)

func newCmdCheck() *cobra.Command {
	var configDirs []string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration files",
		Long: `Validate the configuration files.

Every *.conf file in the configuration directories is parsed and the
result reported. The command exits non-zero when any file is broken.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(configDirs) == 0 {
				configDirs = pkgcfg.DefaultDirs()
			}
			return runCheck(configDirs)
		},
	}

	cmd.Flags().StringSliceVar(&configDirs, "config-dir", nil,
		"directories to load *.conf files from (default: system and user directories)")
	return cmd
}

func runCheck(dirs []string) error {
	broken := 0
	checked := 0
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintf(stdout, "%s %s (missing, skipped)\n", warnStatus, dir)
				continue
			}
			fmt.Fprintf(stderr, "%s %s: %s\n", failStatus, dir, err)
			broken++
			continue
		}

		var files []string
		for _, entry := range entries {
			if !entry.IsDir() && filepath.Ext(entry.Name()) == ".conf" {
				files = append(files, filepath.Join(dir, entry.Name()))
			}
		}
		sort.Strings(files)
		for _, path := range files {
			checked++
			if err := checkFile(path); err != nil {
				fmt.Fprintf(stdout, "%s %s: %s\n", failStatus, path, err)
				broken++
			} else {
				fmt.Fprintf(stdout, "%s %s\n", okStatus, path)
			}
		}
	}

	cfg := pkgcfg.Load(dirs...)
	bindings := 0
	for _, entries := range cfg.BindingTables() {
		bindings += len(entries)
	}
	fmt.Fprintf(stdout, "\n%d files checked, %d key bindings active\n", checked, bindings)

	if broken > 0 {
		return fmt.Errorf("%d configuration files are broken", broken)
	}
	return nil
}

func checkFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var probe pkgcfg.Config
	return yaml.UnmarshalStrict(data, &probe)
}
