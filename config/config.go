// Package config holds the declarative schema for configuring indices and
// the factory that translates it into matchers and registered indices.
//
// Schema shape is grounded on sigs.k8s.io/prometheus-adapter's
// pkg/config/config.go (a top-level list of rules, each with a name and a
// filter spec), generalized to this spec's matcher variants and the
// ecosystem-standard string matcher shape (exact/prefix/suffix/contains/
// safe_regex) borrowed the way spec.md §4.5 describes.
package config

// MetricsIndexConfig is the top-level configuration document.
type MetricsIndexConfig struct {
	Indices []IndexEntry `json:"indices" yaml:"indices"`
}

// MetricKind is the YAML-level spelling of a metric kind. Only "counter" and
// "gauge" are accepted in v1; histogram indices are not configurable this
// way yet (they can still be built programmatically via
// indexedregistry.IndexedRegistry.RegisterHistogramIndex).
type MetricKind string

const (
	MetricKindCounter MetricKind = "counter"
	MetricKindGauge   MetricKind = "gauge"
)

// IndexEntry describes one index to build: its name, the kind of metric it
// indexes, and exactly one matcher specification.
type IndexEntry struct {
	Name       string            `json:"name" yaml:"name"`
	MetricKind MetricKind        `json:"metric_kind" yaml:"metric_kind"`
	PrefixSuffix  *PrefixSuffixSpec `json:"prefix_suffix,omitempty" yaml:"prefix_suffix,omitempty"`
	StringMatcher *StringMatcherSpec `json:"string_matcher,omitempty" yaml:"string_matcher,omitempty"`
}

// PrefixSuffixSpec configures a matcher.PrefixSuffix. Either field may be
// left empty.
type PrefixSuffixSpec struct {
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
}

// StringMatcherSpec is the ecosystem-standard generic string matcher shape:
// exactly one field should be set. It is translated to a matcher.Matcher by
// IndexFactory.MakeMatcher.
type StringMatcherSpec struct {
	Exact      string `json:"exact,omitempty" yaml:"exact,omitempty"`
	Prefix     string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Suffix     string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Contains   string `json:"contains,omitempty" yaml:"contains,omitempty"`
	SafeRegex  string `json:"safe_regex,omitempty" yaml:"safe_regex,omitempty"`
}
