package narsese

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleInheritanceJudgement(t *testing.T) {
	p, err := ParseSentence("<A --> B>. %0.9;0.9%", 1, 0)
	require.NoError(t, err)
	assert.True(t, p.Sentence.HasTruth)
	assert.InDelta(t, 0.9, p.Sentence.Truth.Frequency.Float(), 1e-4)
	assert.InDelta(t, 0.9, p.Sentence.Truth.Confidence.Float(), 1e-4)
	assert.Equal(t, "<A --> B>", p.Sentence.Content.String())
}

func TestParseDefaultTruthWhenOmitted(t *testing.T) {
	p, err := ParseSentence("<A --> B>.", 1, 0)
	require.NoError(t, err)
	assert.True(t, p.Sentence.HasTruth)
	assert.InDelta(t, 1.0, p.Sentence.Truth.Frequency.Float(), 1e-4)
	assert.InDelta(t, 0.9, p.Sentence.Truth.Confidence.Float(), 1e-4)
}

func TestParseQuestion(t *testing.T) {
	p, err := ParseSentence("<A --> C>?", 1, 0)
	require.NoError(t, err)
	assert.False(t, p.Sentence.HasTruth)
	assert.Equal(t, "<A --> C>", p.Sentence.Content.String())
}

func TestParseQueryVariable(t *testing.T) {
	p, err := ParseSentence("<?x --> C>?", 1, 0)
	require.NoError(t, err)
	assert.True(t, p.Sentence.Content.ContainsQueryVar())
}

func TestParseIndependentVariableInImplication(t *testing.T) {
	p, err := ParseSentence("<<$x --> A> ==> <$x --> B>>. %1.0;0.9%", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "<<$1 --> A> ==> <$1 --> B>>", p.Sentence.Content.String())
}

func TestParseSameVariableNameSharesID(t *testing.T) {
	p, err := ParseSentence("<<$x --> A> ==> <$x --> B>>.", 1, 0)
	require.NoError(t, err)
	impl := p.Sentence.Content
	ant := impl.Children[0]
	cons := impl.Children[1]
	assert.Equal(t, ant.Children[0].VarID, cons.Children[0].VarID)
}

func TestParseCompoundConjunction(t *testing.T) {
	p, err := ParseSentence("(&&, <A --> B>, <B --> C>).", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, len(p.Sentence.Content.Children))
}

func TestParseSetExtension(t *testing.T) {
	p, err := ParseSentence("<{tom} --> bird>.", 1, 0)
	require.NoError(t, err)
	subj := p.Sentence.Content.Children[0]
	assert.Equal(t, "{tom}", subj.String())
}

func TestParseImageWithPlaceholder(t *testing.T) {
	p, err := ParseSentence("<(/,R,_,y) --> P>.", 1, 0)
	require.NoError(t, err)
	img := p.Sentence.Content.Children[0]
	assert.Equal(t, 2, img.PlaceholderIndex)
	assert.Equal(t, 2, len(img.Children))
}

func TestParseExplicitBudget(t *testing.T) {
	p, err := ParseSentence("<A --> B>. %0.9;0.9% $0.5;0.5;0.5$", 1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p.Budget.Priority.Float(), 1e-4)
	assert.InDelta(t, 0.5, p.Budget.Durability.Float(), 1e-4)
	assert.InDelta(t, 0.5, p.Budget.Quality.Float(), 1e-4)
}

func TestParseTenseMarkerIsConsumed(t *testing.T) {
	p, err := ParseSentence("<A --> B>. :|: %0.9;0.9%", 1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, p.Sentence.Truth.Frequency.Float(), 1e-4)
}

func TestParseNegation(t *testing.T) {
	p, err := ParseSentence("(--, <A --> B>).", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, len(p.Sentence.Content.Children))
}

func TestParseRejectsMalformedTruth(t *testing.T) {
	_, err := ParseSentence("<A --> B>. %0.9%", 1, 0)
	assert.Error(t, err)
}

func TestParseRejectsUnknownCharacter(t *testing.T) {
	_, err := ParseSentence("<A --> B>. @", 1, 0)
	assert.Error(t, err)
}

func TestFormatRoundTripsThroughString(t *testing.T) {
	p, err := ParseSentence("<A --> B>. %0.9;0.9%", 1, 0)
	require.NoError(t, err)
	assert.Contains(t, Format(p.Sentence), "A --> B")
}
