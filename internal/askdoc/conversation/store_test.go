package conversation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/longkey1/askdoc/internal/askdoc"
	"github.com/longkey1/askdoc/internal/askdoc/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQuerier records calls and answers with a canned reply or error
type fakeQuerier struct {
	mu      sync.Mutex
	queries []string
	reply   string
	err     error
}

func (f *fakeQuerier) Send(ctx context.Context, q string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.reply, f.err
}

func (f *fakeQuerier) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func countSender(state State, sender Sender) int {
	n := 0
	for _, m := range state.Messages {
		if m.Sender == sender {
			n++
		}
	}
	return n
}

func TestNewStore_SeedsGreeting(t *testing.T) {
	store := NewStore(&fakeQuerier{})
	state := store.Snapshot()

	require.Len(t, state.Messages, 1)
	assert.Equal(t, SenderBot, state.Messages[0].Sender)
	assert.Equal(t, DefaultGreeting, state.Messages[0].Text)
	assert.False(t, state.Pending)
}

func TestNewStore_Options(t *testing.T) {
	store := NewStore(&fakeQuerier{}, WithGreeting("Hi there"), WithFallback("Nope"))
	state := store.Snapshot()

	assert.Equal(t, "Hi there", state.Messages[0].Text)
	assert.Equal(t, "Nope", store.Fallback())
}

func TestSubmit_AppendsUserMessageAndSetsPending(t *testing.T) {
	q := &fakeQuerier{reply: "Chapter 3 covers X."}
	store := NewStore(q)

	call, ok := store.Submit("What is chapter 3 about?")
	require.True(t, ok)
	require.NotNil(t, call)

	state := store.Snapshot()
	require.Len(t, state.Messages, 2)
	last, _ := state.Last()
	assert.Equal(t, SenderUser, last.Sender)
	assert.Equal(t, "What is chapter 3 about?", last.Text)
	assert.Equal(t, last.ID, call.MessageID())
	assert.True(t, state.Pending)
	assert.Equal(t, 0, q.calls(), "query is issued by running the call")

	call.Run(context.Background())

	assert.Equal(t, []string{"What is chapter 3 about?"}, q.queries)
	state = store.Snapshot()
	require.Len(t, state.Messages, 3)
	last, _ = state.Last()
	assert.Equal(t, SenderBot, last.Sender)
	assert.Equal(t, "Chapter 3 covers X.", last.Text)
	assert.False(t, state.Pending)
}

func TestSubmit_BlankTextIsNoop(t *testing.T) {
	q := &fakeQuerier{}
	store := NewStore(q)

	for _, text := range []string{"", " ", "\t\n", "   \r\n  "} {
		call, ok := store.Submit(text)
		assert.False(t, ok)
		assert.Nil(t, call)
	}

	state := store.Snapshot()
	assert.Len(t, state.Messages, 1)
	assert.False(t, state.Pending)
	assert.Equal(t, 0, q.calls())
}

func TestSubmit_RejectedWhilePending(t *testing.T) {
	q := &fakeQuerier{reply: "ok"}
	store := NewStore(q)

	first, ok := store.Submit("first")
	require.True(t, ok)

	second, ok := store.Submit("second")
	assert.False(t, ok)
	assert.Nil(t, second)

	state := store.Snapshot()
	assert.Equal(t, 1, countSender(state, SenderUser))
	assert.True(t, state.Pending)

	first.Run(context.Background())
	assert.Equal(t, []string{"first"}, q.queries)

	_, ok = store.Submit("third")
	assert.True(t, ok, "store accepts again once the reply arrived")
}

func TestFailure_AppendsFallbackAndKeepsUserMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	store := NewStore(query.NewClient(server.URL))
	call, ok := store.Submit("What is chapter 3 about?")
	require.True(t, ok)
	call.Run(context.Background())

	state := store.Snapshot()
	require.Len(t, state.Messages, 3)
	assert.Equal(t, "What is chapter 3 about?", state.Messages[1].Text)
	assert.Equal(t, SenderUser, state.Messages[1].Sender)
	assert.Equal(t, DefaultFallback, state.Messages[2].Text)
	assert.Equal(t, SenderBot, state.Messages[2].Sender)
	assert.False(t, state.Pending)

	_, ok = store.Submit("again")
	assert.True(t, ok, "widget stays usable after a failure")
}

func TestFailure_NeverSurfacesRawError(t *testing.T) {
	store := NewStore(&fakeQuerier{err: errors.New("dial tcp: connection refused")}, WithFallback("Try later."))
	call, _ := store.Submit("hi")
	call.Run(context.Background())

	last, _ := store.Snapshot().Last()
	assert.Equal(t, "Try later.", last.Text)
}

func TestCompletionWithoutPendingIsIgnored(t *testing.T) {
	store := NewStore(&fakeQuerier{})

	store.OnQuerySuccess("stray")
	store.OnQueryFailure(errors.New("stray"))

	state := store.Snapshot()
	assert.Len(t, state.Messages, 1)
	assert.False(t, state.Pending)
}

func TestCallRunsOnce(t *testing.T) {
	q := &fakeQuerier{reply: "ok"}
	store := NewStore(q)

	call, _ := store.Submit("hi")
	call.Run(context.Background())
	call.Run(context.Background())

	assert.Equal(t, 1, q.calls())
	assert.Equal(t, 3, store.Snapshot().MessageCount())
}

func TestDoThenResolve(t *testing.T) {
	q := &fakeQuerier{reply: "async reply"}
	store := NewStore(q)

	call, _ := store.Submit("hi")
	outcome := call.Do(context.Background())
	assert.True(t, store.Pending(), "Do leaves the store untouched")

	store.Resolve(outcome)
	last, _ := store.Snapshot().Last()
	assert.Equal(t, "async reply", last.Text)
	assert.False(t, store.Pending())
}

func TestRapidDoubleSubmitIssuesOneRequest(t *testing.T) {
	release := make(chan struct{})
	var requests atomic.Int32
	q := askdoc.QuerierFunc(func(ctx context.Context, text string) (string, error) {
		requests.Add(1)
		<-release
		return "done", nil
	})
	store := NewStore(q)

	call, ok := store.Submit("first")
	require.True(t, ok)

	done := make(chan struct{})
	go func() {
		call.Run(context.Background())
		close(done)
	}()

	_, ok = store.Submit("second")
	assert.False(t, ok)

	close(release)
	<-done

	state := store.Snapshot()
	assert.Equal(t, int32(1), requests.Load())
	assert.Equal(t, 1, countSender(state, SenderUser))
	assert.Equal(t, 2, countSender(state, SenderBot))
	assert.False(t, state.Pending)
}

func TestMessageCountsFollowAcceptedSubmissions(t *testing.T) {
	q := &fakeQuerier{reply: "ok"}
	store := NewStore(q)

	inputs := []string{"a", "", "b", "   ", "c"}
	accepted, issued := 0, 0
	for _, text := range inputs {
		call, ok := store.Submit(text)
		if !ok {
			continue
		}
		accepted++
		// a rejected resubmission in the middle of every exchange
		_, again := store.Submit("dup")
		assert.False(t, again)
		if accepted%2 == 1 {
			call.Run(context.Background())
			issued++
		} else {
			store.OnQueryFailure(errors.New("boom"))
		}
	}

	state := store.Snapshot()
	assert.Equal(t, accepted, countSender(state, SenderUser))
	assert.Equal(t, 3, accepted)
	assert.Equal(t, issued, q.calls())
	assert.Equal(t, accepted+1, countSender(state, SenderBot))
	assert.False(t, state.Pending)

	// every user message is immediately followed by exactly one bot message
	for i, m := range state.Messages {
		if m.Sender == SenderUser {
			require.Less(t, i+1, len(state.Messages))
			assert.Equal(t, SenderBot, state.Messages[i+1].Sender)
		}
	}
}

func TestMessageIDsIncrease(t *testing.T) {
	store := NewStore(&fakeQuerier{reply: "ok"})
	for _, text := range []string{"a", "b", "c"} {
		call, _ := store.Submit(text)
		call.Run(context.Background())
	}

	state := store.Snapshot()
	for i := 1; i < len(state.Messages); i++ {
		assert.Greater(t, state.Messages[i].ID, state.Messages[i-1].ID)
	}
}

func TestObserversNotifiedOnEveryMutation(t *testing.T) {
	store := NewStore(&fakeQuerier{reply: "ok"})

	var seen []State
	unsubscribe := store.Subscribe(func(s State) {
		seen = append(seen, s)
	})

	call, _ := store.Submit("hi")
	require.Len(t, seen, 1)
	assert.True(t, seen[0].Pending)
	assert.Equal(t, 2, seen[0].MessageCount())

	call.Run(context.Background())
	require.Len(t, seen, 2)
	assert.False(t, seen[1].Pending)
	assert.Equal(t, 3, seen[1].MessageCount())

	store.Submit("")
	assert.Len(t, seen, 2, "rejected submissions do not notify")

	unsubscribe()
	call, _ = store.Submit("after")
	call.Run(context.Background())
	assert.Len(t, seen, 2)
}

func TestSnapshotIsACopy(t *testing.T) {
	store := NewStore(&fakeQuerier{})
	state := store.Snapshot()
	state.Messages[0].Text = "mutated"

	assert.Equal(t, DefaultGreeting, store.Snapshot().Messages[0].Text)
}
