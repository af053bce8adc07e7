package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// StoreClock reads the database server's clock via the hello command.
type StoreClock struct {
	db  *mongo.Database
	loc *time.Location
}

func NewStoreClock(db *mongo.Database, loc *time.Location) *StoreClock {
	if loc == nil {
		loc = time.Local
	}
	return &StoreClock{db: db, loc: loc}
}

func (c *StoreClock) Now(ctx context.Context) (time.Time, error) {
	var reply struct {
		LocalTime time.Time `bson:"localTime"`
	}

	err := c.db.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&reply)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read server time: %w", err)
	}
	if reply.LocalTime.IsZero() {
		return time.Time{}, errors.New("server time missing from hello reply")
	}

	return reply.LocalTime.In(c.loc), nil
}

// SystemClock uses the local process clock.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now(context.Context) (time.Time, error) {
	now := time.Now()
	if c.Location != nil {
		now = now.In(c.Location)
	}
	return now, nil
}
