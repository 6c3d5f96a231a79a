package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// withTransaction runs fn inside a MongoDB transaction. Every multi-document
// write in the system (follow edges, notification fan-out, paired view
// counters, artwork/owner list maintenance) goes through here so a crash
// cannot leave an asymmetric edge or an orphaned notification reference.
// Requires the server to run as a replica set.
func withTransaction(ctx context.Context, client *mongo.Client, fn func(sc mongo.SessionContext) error) error {
	session, err := client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
