package shutdown

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stoppableFunc func(ctx context.Context) error

func (f stoppableFunc) Shutdown(ctx context.Context) error { return f(ctx) }

func TestStopRunsEveryStoppable(t *testing.T) {
	var order []string
	boom := errors.New("boom")

	err := Stop(context.Background(),
		stoppableFunc(func(context.Context) error { order = append(order, "server"); return boom }),
		nil,
		stoppableFunc(func(context.Context) error { order = append(order, "neo4j"); return nil }),
	)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"server", "neo4j"}, order)
}

func TestStopWithNothing(t *testing.T) {
	assert.NoError(t, Stop(context.Background()))
}
