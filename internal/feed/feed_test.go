package feed

import (
	"testing"

	"github.com/incidentflow/incidentflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(list []*domain.Incident) []int64 {
	out := make([]int64, 0, len(list))
	for _, incident := range list {
		out = append(out, incident.ID)
	}
	return out
}

func TestReplaceSnapshot_KeepsOrder(t *testing.T) {
	f := New()
	f.ReplaceSnapshot([]*domain.Incident{
		{ID: 3, Title: "third"},
		{ID: 2, Title: "second"},
		{ID: 1, Title: "first"},
	})

	assert.Equal(t, []int64{3, 2, 1}, ids(f.Incidents()))
	assert.Equal(t, 3, f.Len())
}

func TestApply_PrependsUnseen(t *testing.T) {
	f := New()
	f.ReplaceSnapshot([]*domain.Incident{{ID: 1}})

	changed := f.Apply(&domain.Incident{ID: 2})

	assert.True(t, changed)
	assert.Equal(t, []int64{2, 1}, ids(f.Incidents()))
}

func TestApply_IgnoresDuplicate(t *testing.T) {
	// The same incident can arrive both in the snapshot and over the stream
	// when it was created between the fetch and the attach. Either order must
	// leave exactly one copy.
	t.Run("snapshot then stream", func(t *testing.T) {
		f := New()
		f.ReplaceSnapshot([]*domain.Incident{{ID: 1, Title: "from snapshot"}})

		changed := f.Apply(&domain.Incident{ID: 1, Title: "from stream"})

		assert.False(t, changed)
		require.Equal(t, 1, f.Len())
		assert.Equal(t, "from snapshot", f.Incidents()[0].Title)
	})

	t.Run("stream then stream", func(t *testing.T) {
		f := New()
		require.True(t, f.Apply(&domain.Incident{ID: 1}))

		changed := f.Apply(&domain.Incident{ID: 1})

		assert.False(t, changed)
		assert.Equal(t, 1, f.Len())
	})
}

func TestReplaceSnapshot_DropsOldEntries(t *testing.T) {
	f := New()
	f.Apply(&domain.Incident{ID: 99})

	f.ReplaceSnapshot([]*domain.Incident{{ID: 1}})

	assert.Equal(t, []int64{1}, ids(f.Incidents()))
}

func TestIncidents_ReturnsCopy(t *testing.T) {
	f := New()
	f.ReplaceSnapshot([]*domain.Incident{{ID: 2}, {ID: 1}})

	list := f.Incidents()
	list[0] = &domain.Incident{ID: 42}

	assert.Equal(t, []int64{2, 1}, ids(f.Incidents()))
}
