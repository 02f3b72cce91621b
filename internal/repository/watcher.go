package repository

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// watchCollection opens a change stream on the collection and signals on the
// returned channel whenever anything in it changes. The channel is closed when
// ctx is cancelled. Consumers re-run their query on each signal, so every
// delivery is the full current result set rather than a diff.
func watchCollection(ctx context.Context, coll *mongo.Collection) (<-chan struct{}, error) {
	stream, err := coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, fmt.Errorf("failed to open change stream on %s: %v", coll.Name(), err)
	}

	notify := make(chan struct{}, 1)
	go func() {
		defer close(notify)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			select {
			case notify <- struct{}{}:
			default:
				// a refresh is already pending; coalesce
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			logrus.WithError(err).WithField("collection", coll.Name()).
				Warn("Change stream ended with error")
		}
	}()
	return notify, nil
}
