package config

import (
	"fmt"
	"regexp"

	"github.com/cloudnative-stats/statindex/indexedregistry"
	"github.com/cloudnative-stats/statindex/matcher"
)

// IndexFactory is stateless: it translates declarative IndexEntry
// configuration into matchers and registered indices. Grounded on the
// teacher's NewSeriesFilterer/NewReMatcher translation step in
// pkg/custom-provider/series_filterer.go, generalized from "one regex filter
// per series query" into the full PrefixSuffix/Regex/Or matcher algebra.
type IndexFactory struct{}

// NewIndexFactory returns a stateless IndexFactory.
func NewIndexFactory() IndexFactory { return IndexFactory{} }

// MakeMatcher translates one IndexEntry's matcher spec into a matcher.Matcher.
// It fails with matcher.InvalidMatcherSpec when metric_kind is unspecified,
// when no matcher field is set, or when the StringMatcherSpec sets more than
// one (or none) of its fields.
func (IndexFactory) MakeMatcher(entry IndexEntry) (matcher.Matcher, error) {
	if isCounter, isGauge := kindOf(entry); !isCounter && !isGauge {
		return nil, matcher.InvalidMatcherSpec(fmt.Sprintf("index %q: metric_kind must be %q or %q (histogram is not supported in v1 config)", entry.Name, MetricKindCounter, MetricKindGauge))
	}

	switch {
	case entry.PrefixSuffix != nil && entry.StringMatcher != nil:
		return nil, matcher.InvalidMatcherSpec(fmt.Sprintf("index %q: specify exactly one of prefix_suffix or string_matcher, not both", entry.Name))
	case entry.PrefixSuffix != nil:
		return matcher.NewPrefixSuffix(entry.PrefixSuffix.Prefix, entry.PrefixSuffix.Suffix), nil
	case entry.StringMatcher != nil:
		return stringMatcherToMatcher(entry.Name, *entry.StringMatcher)
	default:
		return nil, matcher.InvalidMatcherSpec(fmt.Sprintf("index %q: no matcher specified", entry.Name))
	}
}

// stringMatcherToMatcher translates the ecosystem-standard generic string
// matcher shape into our Matcher algebra, per spec.md §4.5:
//   - prefix / suffix      -> PrefixSuffix
//   - safe_regex           -> Regex, used verbatim
//   - exact(s)             -> Regex(^s$) with s regex-escaped
//   - contains(s)          -> Regex(.*s.*) with s regex-escaped
func stringMatcherToMatcher(indexName string, spec StringMatcherSpec) (matcher.Matcher, error) {
	set := 0
	if spec.Exact != "" {
		set++
	}
	if spec.Prefix != "" {
		set++
	}
	if spec.Suffix != "" {
		set++
	}
	if spec.Contains != "" {
		set++
	}
	if spec.SafeRegex != "" {
		set++
	}
	if set != 1 {
		return nil, matcher.InvalidMatcherSpec(fmt.Sprintf("index %q: string_matcher must set exactly one of exact/prefix/suffix/contains/safe_regex", indexName))
	}

	switch {
	case spec.Prefix != "":
		return matcher.NewPrefixSuffix(spec.Prefix, ""), nil
	case spec.Suffix != "":
		return matcher.NewPrefixSuffix("", spec.Suffix), nil
	case spec.SafeRegex != "":
		return matcher.NewRegex(spec.SafeRegex)
	case spec.Exact != "":
		return matcher.NewRegex("^" + regexp.QuoteMeta(spec.Exact) + "$")
	default: // spec.Contains != ""
		return matcher.NewRegex(".*" + regexp.QuoteMeta(spec.Contains) + ".*")
	}
}

func kindOf(entry IndexEntry) (bool, bool) {
	isCounter := entry.MetricKind == MetricKindCounter
	isGauge := entry.MetricKind == MetricKindGauge
	return isCounter, isGauge
}

// BuildInto registers every entry in cfg into registry, via registerIndex
// (no retroactive scan). Processing stops at the first error.
func (f IndexFactory) BuildInto(registry *indexedregistry.IndexedRegistry, cfg *MetricsIndexConfig) error {
	return f.build(registry, cfg, false)
}

// BuildIntoWithExisting is BuildInto, but scans pre-existing metrics for
// every index it registers.
func (f IndexFactory) BuildIntoWithExisting(registry *indexedregistry.IndexedRegistry, cfg *MetricsIndexConfig) error {
	return f.build(registry, cfg, true)
}

func (f IndexFactory) build(registry *indexedregistry.IndexedRegistry, cfg *MetricsIndexConfig, withExisting bool) error {
	for _, entry := range cfg.Indices {
		m, err := f.MakeMatcher(entry)
		if err != nil {
			return err
		}

		// MakeMatcher has already rejected any metric_kind other than
		// counter or gauge, so isCounter/isGauge is exhaustive here.
		isCounter, isGauge := kindOf(entry)
		switch {
		case isCounter && withExisting:
			_, err = registry.RegisterCounterIndexWithExisting(entry.Name, m)
		case isCounter:
			_, err = registry.RegisterCounterIndex(entry.Name, m)
		case isGauge && withExisting:
			_, err = registry.RegisterGaugeIndexWithExisting(entry.Name, m)
		case isGauge:
			_, err = registry.RegisterGaugeIndex(entry.Name, m)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
