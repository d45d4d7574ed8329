package config

import (
	"fmt"
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/cloudnative-stats/statindex/metrics"
)

// FromFile loads the configuration from a particular file.
func FromFile(filename string) (*MetricsIndexConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("unable to load index config file: %v", err)
	}
	defer file.Close()

	contents, err := ioutil.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("unable to load index config file: %v", err)
	}
	return FromYAML(contents)
}

// FromYAML loads the configuration from a blob of YAML.
func FromYAML(contents []byte) (*MetricsIndexConfig, error) {
	var cfg MetricsIndexConfig
	if err := yaml.UnmarshalStrict(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unable to parse index config: %v", err)
	}
	metrics.ConfigEntriesParsed.Set(float64(len(cfg.Indices)))
	return &cfg, nil
}
