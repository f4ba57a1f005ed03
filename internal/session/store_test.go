package session

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestStore(t *testing.T) {
	store := NewStore(zerolog.Nop())
	router := &fakeRouter{}

	sess := New("abc", router, "key")
	store.Add(sess)

	assert.Same(t, sess, store.Get("abc"))
	assert.Nil(t, store.Get("missing"))
	assert.Len(t, store.List(), 1)

	assert.True(t, store.Delete("abc"))
	assert.True(t, router.closed)
	assert.False(t, store.Delete("abc"))
	assert.Empty(t, store.List())
}

func TestStoreCleanup(t *testing.T) {
	store := NewStore(zerolog.Nop())

	stale := New("stale", &fakeRouter{}, "")
	stale.updatedAt = time.Now().Add(-2 * time.Hour)
	fresh := New("fresh", &fakeRouter{}, "")

	store.Add(stale)
	store.Add(fresh)

	assert.Equal(t, 1, store.Cleanup(time.Hour))
	assert.Nil(t, store.Get("stale"))
	assert.NotNil(t, store.Get("fresh"))

	store.CloseAll()
	assert.Empty(t, store.List())
}

func TestTranscriptTurnsIsACopy(t *testing.T) {
	tr := NewTranscript()
	turns := tr.Turns()
	turns[0].Content = "changed"

	assert.Equal(t, Greeting, tr.Turns()[0].Content)
}
