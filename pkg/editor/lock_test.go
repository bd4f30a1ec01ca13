package editor

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/quester/pkg/adapters/memory"
	"github.com/stretchr/testify/assert"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()

	for i := 0; i < 10000; i++ {
		id := fmt.Sprintf("game-%d", i)
		_ = mgr.WithLock(ctx, id, func(context.Context) error { return nil })
	}

	assert.Empty(t, mgr.locks, "lock entries must be released once unused")
}
