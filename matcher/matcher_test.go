package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudnative-stats/statindex/matcher"
)

func TestPrefixMatcher(t *testing.T) {
	m := matcher.NewPrefixSuffix("cluster.", "")

	require.True(t, m.Matches("cluster.foo.upstream_rq"))
	require.True(t, m.Matches("cluster.bar"))
	require.True(t, m.Matches("cluster."))
	require.False(t, m.Matches("http.downstream_rq"))
	require.False(t, m.Matches("cluste.foo"))

	require.Equal(t, "prefix='cluster.'", m.Describe())
}

func TestPrefixSuffixOverlap(t *testing.T) {
	m := matcher.NewPrefixSuffix("abc", "bcd")

	require.True(t, m.Matches("abcd"))
	require.True(t, m.Matches("abcXbcd"))
	require.False(t, m.Matches("abc"))
	require.False(t, m.Matches("bcd"))

	require.Equal(t, "prefix='abc' AND suffix='bcd'", m.Describe())
}

func TestEmptyPrefixSuffixMatchesEverything(t *testing.T) {
	m := matcher.NewPrefixSuffix("", "")

	require.True(t, m.Matches(""))
	require.True(t, m.Matches("anything.at.all"))
	require.Equal(t, "all", m.Describe())
}

func TestRegexMatcher(t *testing.T) {
	m, err := matcher.NewRegex(`^http\..+\.rq_total$`)
	require.NoError(t, err)

	require.True(t, m.Matches("http.downstream.rq_total"))
	require.False(t, m.Matches("http.downstream.rq_error"))
	require.Equal(t, `regex='^http\..+\.rq_total$'`, m.Describe())
}

func TestRegexMatcherRejectsMalformedPattern(t *testing.T) {
	_, err := matcher.NewRegex(`(unterminated`)
	require.Error(t, err)
	require.IsType(t, matcher.InvalidMatcherSpec(""), err)
}

func TestOrOfPrefixSuffixAndRegex(t *testing.T) {
	or := matcher.NewOr(
		matcher.NewPrefixSuffix("cluster.", ""),
		mustRegex(t, `^http\..+\.rq_total$`),
	)

	require.True(t, or.Matches("cluster.foo.bar"))
	require.True(t, or.Matches("http.downstream.rq_total"))
	require.False(t, or.Matches("listener.foo"))
	require.False(t, or.Matches("http.downstream.rq_error"))

	require.Equal(t, `(prefix='cluster.' OR regex='^http\..+\.rq_total$')`, or.Describe())
}

func TestEmptyOrMatchesNothing(t *testing.T) {
	or := matcher.NewOr()

	require.False(t, or.Matches("anything"))
	require.Equal(t, "()", or.Describe())
}

func TestDescribeIsStableAcrossCalls(t *testing.T) {
	m := matcher.NewPrefixSuffix("conn.", "")
	require.Equal(t, m.Describe(), m.Describe())
}

func mustRegex(t *testing.T, pattern string) *matcher.Regex {
	t.Helper()
	m, err := matcher.NewRegex(pattern)
	require.NoError(t, err)
	return m
}
