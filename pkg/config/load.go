package config

import (
	"os"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"
	"sigs.k8s.io/yaml"
)

// Load reads every *.conf file from the given directories in order, later
// files overriding earlier ones, on top of the defaults. Missing
// directories are fine; broken files are skipped.
func Load(dirs ...string) *Config {
	cfg := Default()
	for _, dir := range dirs {
		for _, path := range confFiles(dir) {
			loadFile(cfg, path)
		}
	}
	return cfg
}

func confFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("cannot read config directory %s: %s", dir, err)
		}
		return nil
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".conf" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files
}

// loadFile merges one file into the config. Unknown keys are reported but
// do not fail the load; parse errors skip the file.
func loadFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Errorf("cannot read config file %s: %s", path, err)
		return
	}

	// Probe with strict parsing first so typos in option names surface.
	var probe Config
	if err := yaml.UnmarshalStrict(data, &probe); err != nil {
		log.Warnf("config file %s has unrecognized or invalid options: %s", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Errorf("skipping config file %s: %s", path, err)
		return
	}
	log.Debugf("loaded config file %s", path)
}
