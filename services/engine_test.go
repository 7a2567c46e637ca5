package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectInputType(t *testing.T) {
	assert.Equal(t, "text", DetectInputType("Some article body to check"))
	assert.Equal(t, "url", DetectInputType("https://www.bbc.com/news/article"))
	assert.Equal(t, "url", DetectInputType("  http://example.org/page  "))
	assert.Equal(t, "facebook", DetectInputType("https://www.facebook.com/somepage"))
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, "Health", Categorize("The vaccine trial at the hospital showed the disease declining"))
	assert.Equal(t, "Politics", Categorize("The president urged congress to pass the policy before the election"))
	assert.Equal(t, "Other", Categorize("completely unrelated ramblings about gardening"))
}

func TestRegionForDomain(t *testing.T) {
	assert.Equal(t, "Philippines", regionForDomain("inquirer.net.ph"))
	assert.Equal(t, "United Kingdom", regionForDomain("bbc.co.uk"))
	assert.Equal(t, "Global", regionForDomain("reuters.com"))
	assert.Equal(t, "", regionForDomain(""))
}

func TestSummarizeTruncates(t *testing.T) {
	long := strings.Repeat("word ", 100)
	summary := summarize(long)
	assert.LessOrEqual(t, len([]rune(summary)), 201)
	assert.True(t, strings.HasSuffix(summary, "…"))

	short := summarize("just  a   short\n\ntext")
	assert.Equal(t, "just a short text", short)
}

func TestContentHashStable(t *testing.T) {
	a := contentHash("text", "hello world")
	b := contentHash("text", "hello world")
	c := contentHash("url", "hello world")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c, "input type is part of the cache key")
	assert.Len(t, a, 32)
}

func TestNewAnalysisIDFormat(t *testing.T) {
	id := newAnalysisID()
	assert.True(t, strings.HasPrefix(id, "an_"))
	assert.Len(t, id, 3+16)
	assert.NotEqual(t, id, newAnalysisID())
}

func TestAnalyzeRejectsEmptyContent(t *testing.T) {
	e := NewEngine(nil, nil)
	_, err := e.Analyze("text", "   ", "", nil)
	assert.Error(t, err)
}

func TestAnalyzePlainTextOffline(t *testing.T) {
	// No DB, no Redis, no API keys: the pipeline still produces a verdict
	// from the ensemble and preprocessing signals alone.
	e := NewEngine(NewGoogleFactCheckClient(""), NewFacebookClient(""))

	var stages []string
	result, err := e.Analyze("text",
		"Researchers at the university published a study according to the official report. "+
			"The data showed a three percent decline, the department confirmed.",
		"user-1",
		func(stage string, pct int) { stages = append(stages, stage) })

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "text", result.InputType)
	assert.False(t, result.IsFake)
	assert.GreaterOrEqual(t, result.CredibilityScore, 0.0)
	assert.LessOrEqual(t, result.CredibilityScore, 100.0)
	assert.NotEmpty(t, result.ModelResults)
	assert.NotNil(t, result.LevelInfo)
	assert.Contains(t, stages, "ml_analysis")
	assert.Equal(t, "complete", stages[len(stages)-1])
}
