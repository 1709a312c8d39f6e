package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oruby/rbridge"
)

// fileConfig is rbi configuration file:
//
//	backend: rscript
//	rscript: /usr/local/bin/Rscript
//	args: [--no-environ]
//	dir: /tmp
//	env: [R_LIBS_USER=/opt/rlib]
//	timeout: 10s
//	db: data.sqlite
//
// Flags given on command line take precedence.
type fileConfig struct {
	Backend string   `yaml:"backend"`
	Rscript string   `yaml:"rscript"`
	Args    []string `yaml:"args"`
	Dir     string   `yaml:"dir"`
	Env     []string `yaml:"env"`
	Timeout string   `yaml:"timeout"`
	DB      string   `yaml:"db"`
}

func loadConfig(path string) (*fileConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	fc := &fileConfig{}
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(fc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return fc, nil
}

// apply merges file values into args and conf, skipping flags named in set
func (fc *fileConfig) apply(args *Args, conf *rbridge.Config, set map[string]bool) error {
	if fc.Backend != "" && !set["backend"] {
		args.backend = fc.Backend
	}
	if fc.Rscript != "" && !set["R"] {
		args.rscript = fc.Rscript
	}
	if fc.DB != "" && !set["db"] {
		args.db = fc.DB
	}

	conf.Args = append(conf.Args, fc.Args...)
	conf.Env = append(conf.Env, fc.Env...)
	if fc.Dir != "" {
		conf.Dir = fc.Dir
	}

	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("config: timeout: %w", err)
		}
		conf.Timeout = d
	}
	return nil
}
