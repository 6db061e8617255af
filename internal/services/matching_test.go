package services

import (
	"context"
	"errors"
	"testing"

	"github.com/loycekalume/LifeStyleCoach-sub001/internal/reqctx"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply  string
	err    error
	calls  int
	prompt string
}

func (f *fakeCompleter) Complete(_ context.Context, _, user string) (string, error) {
	f.calls++
	f.prompt = user
	return f.reply, f.err
}

var testPool = []Candidate{
	{ID: "a", Name: "Alpha"},
	{ID: "b", Name: "Bravo"},
	{ID: "c", Name: "Charlie"},
}

func TestMatch_SortsAndFiltersByThreshold(t *testing.T) {
	llm := &fakeCompleter{reply: `{"matches":[
		{"id":"a","score":72,"reason":"good"},
		{"id":"b","score":95,"reason":"great"},
		{"id":"c","score":40,"reason":"weak"}]}`}

	out := NewMatcher(llm).Match(context.Background(), map[string]string{"goal": "strength"}, testPool, Rubric{Threshold: 50})

	assert.False(t, out.Fallback)
	require.Len(t, out.Matches, 2)
	assert.Equal(t, "b", out.Matches[0].CandidateID)
	assert.Equal(t, 95.0, out.Matches[0].Score)
	assert.Equal(t, "Bravo", out.Matches[0].Name)
	assert.Equal(t, "a", out.Matches[1].CandidateID)
	assert.Equal(t, 1, llm.calls)
}

func TestMatch_DropsHallucinatedIDs(t *testing.T) {
	llm := &fakeCompleter{reply: "```json\n" + `{"matches":[
		{"id":"ghost","score":99,"reason":"made up"},
		{"id":"c","score":80,"reason":"fine"}]}` + "\n```"}

	out := NewMatcher(llm).Match(context.Background(), nil, testPool, Rubric{Threshold: 50})

	require.Len(t, out.Matches, 1)
	assert.Equal(t, "c", out.Matches[0].CandidateID)
}

func TestMatch_DeduplicatesKeepingBestScore(t *testing.T) {
	llm := &fakeCompleter{reply: `{"matches":[
		{"id":"a","score":60,"reason":"first"},
		{"id":"b","score":70,"reason":"only"},
		{"id":"a","score":90,"reason":"second"}]}`}

	out := NewMatcher(llm).Match(context.Background(), nil, testPool, Rubric{Threshold: 50})

	require.Len(t, out.Matches, 2)
	assert.Equal(t, "a", out.Matches[0].CandidateID)
	assert.Equal(t, 90.0, out.Matches[0].Score)
	assert.Equal(t, "second", out.Matches[0].Reason)
}

func TestMatch_Fallbacks(t *testing.T) {
	tests := []struct {
		name  string
		llm   *fakeCompleter
		empty bool
		want  int
	}{
		{"provider error", &fakeCompleter{err: errors.New("timeout")}, false, 3},
		{"invalid json", &fakeCompleter{reply: "I cannot help with that"}, false, 3},
		{"empty matches", &fakeCompleter{reply: `{"matches":[]}`}, false, 3},
		{"only unknown ids", &fakeCompleter{reply: `{"matches":[{"id":"ghost","score":99}]}`}, false, 3},
		{"lead flow returns empty", &fakeCompleter{err: errors.New("boom")}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewMatcher(tt.llm).Match(context.Background(), nil, testPool, Rubric{Threshold: 50, EmptyOnFallback: tt.empty})
			assert.True(t, out.Fallback)
			assert.Len(t, out.Matches, tt.want)
			assert.NotNil(t, out.Matches)
		})
	}
}

func TestMatch_AllBelowThresholdIsEmptyNotFallback(t *testing.T) {
	llm := &fakeCompleter{reply: `{"matches":[{"id":"c","score":40},{"id":"a","score":49.5}]}`}

	out := NewMatcher(llm).Match(context.Background(), nil, testPool, Rubric{Threshold: 50})

	assert.False(t, out.Fallback)
	assert.NotNil(t, out.Matches)
	assert.Empty(t, out.Matches)
}

func TestMatch_EmptyPoolSkipsModel(t *testing.T) {
	llm := &fakeCompleter{}
	out := NewMatcher(llm).Match(context.Background(), nil, nil, Rubric{Threshold: 50})

	assert.Empty(t, out.Matches)
	assert.False(t, out.Fallback)
	assert.Zero(t, llm.calls)
}

func TestMatchService_InstructorsForClient(t *testing.T) {
	db := testutil.MustOpen(t)
	client, _ := testutil.CreateClient(t, db, "jane")
	i1, _ := testutil.CreateInstructor(t, db, "jack")
	i2, _ := testutil.CreateInstructor(t, db, "jill")

	llm := &fakeCompleter{reply: `{"matches":[{"id":"` + i2.ID + `","score":88,"reason":"strength focus"},{"id":"` + i1.ID + `","score":51,"reason":"ok"}]}`}
	svc := NewMatchService(db, NewMatcher(llm))

	out, err := svc.InstructorsForClient(context.Background(), reqctx.New(client.ID, client.Role, ""))
	require.NoError(t, err)
	require.Len(t, out.Matches, 2)
	assert.Equal(t, i2.ID, out.Matches[0].CandidateID)
	assert.Equal(t, "jill", out.Matches[0].Name)

	assert.Contains(t, llm.prompt, "lose weight")
	assert.Contains(t, llm.prompt, i1.ID)
	assert.NotContains(t, llm.prompt, client.Email)
}

func TestMatchService_RequiresProfile(t *testing.T) {
	db := testutil.MustOpen(t)
	user := testutil.CreateUser(t, db, "client", "noprofile")
	svc := NewMatchService(db, NewMatcher(&fakeCompleter{}))

	_, err := svc.DieticiansForClient(context.Background(), reqctx.New(user.ID, user.Role, ""))
	assert.ErrorIs(t, err, ErrProfileIncomplete)
}

func TestMatchService_ClientLeadsFallBackToEmpty(t *testing.T) {
	db := testutil.MustOpen(t)
	instructor, _ := testutil.CreateInstructor(t, db, "kyle")
	testutil.CreateClient(t, db, "kim")

	svc := NewMatchService(db, NewMatcher(&fakeCompleter{err: errors.New("down")}))
	out, err := svc.ClientsForInstructor(context.Background(), reqctx.New(instructor.ID, instructor.Role, ""))
	require.NoError(t, err)
	assert.True(t, out.Fallback)
	assert.Empty(t, out.Matches)
}
