package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notely/pkg/adapters/lifecycle"
	"github.com/aretw0/notely/pkg/adapters/memory"
	"github.com/aretw0/notely/pkg/core"
	"github.com/aretw0/notely/pkg/notebook"
)

func TestSource_BridgesNotebookEvents(t *testing.T) {
	svc := notebook.NewService(memory.New(), notebook.Config{NewID: func() string { return "t1" }})
	require.NoError(t, svc.Load(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := lifecycle.NewSource(svc)
	require.NoError(t, src.Start(ctx))

	_, err := svc.NewTag(context.Background(), "work")
	require.NoError(t, err)

	select {
	case e := <-src.Events():
		assert.Equal(t, "CREATE tag t1", e.String())
		ev, ok := e.(core.Event)
		require.True(t, ok)
		assert.Equal(t, core.KindTag, ev.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	cancel()
	assert.Eventually(t, func() bool {
		_, open := <-src.Events()
		return !open
	}, 2*time.Second, 10*time.Millisecond)
}
