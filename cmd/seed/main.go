// Seeds the development database with sample notices and events.
package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx"

	"campusquery/internal/bootstrap"
	"campusquery/internal/campusevent"
	"campusquery/internal/config"
	"campusquery/internal/notice"
)

// noopLifecycle satisfies fx.Lifecycle for one-shot commands that manage
// the connection themselves.
type noopLifecycle struct{}

func (noopLifecycle) Append(fx.Hook) {}

func futureDate(days int) time.Time {
	return time.Now().AddDate(0, 0, days)
}

func main() {
	bootstrap.Loadenv()

	cfg, err := config.NewMongoDBConfig()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := config.NewLogger()
	if err != nil {
		log.Fatal(err)
	}

	client, db, err := config.NewMongoDBClient(noopLifecycle{}, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer client.Client.Disconnect(context.Background())

	now := time.Now().UTC()
	notices := []any{
		&notice.Notice{
			ID: primitive.NewObjectID(), Title: "End Semester Examination Schedule Released",
			Category: "Exams", Date: now.AddDate(0, 0, -1),
			Summary:   "The final confirmed schedule for the end semester examinations has been published.",
			Important: true, Status: notice.StatusPublished, CreatedAt: now, UpdatedAt: now,
		},
		&notice.Notice{
			ID: primitive.NewObjectID(), Title: "Campus Wi-Fi Maintenance",
			Category: "General", Date: now.AddDate(0, 0, -2),
			Summary: "Wi-Fi services will be intermittent on Sunday from 2 AM to 6 AM for upgrades.",
			Status:  notice.StatusPublished, CreatedAt: now, UpdatedAt: now,
		},
	}
	events := []any{
		&campusevent.Event{
			ID: primitive.NewObjectID(), Title: "TechFest: Innovation Summit",
			Date: futureDate(7), Time: "10:00 AM", Location: "Main Auditorium",
			Description: "The annual technology festival featuring hackathons and keynote speakers.",
			Category:    "Festival", Organizer: "Student Council", CreatedAt: now, UpdatedAt: now,
		},
		&campusevent.Event{
			ID: primitive.NewObjectID(), Title: "Inter-Hostel Cricket Tournament",
			Date: futureDate(3), Time: "4:00 PM", Location: "Sports Ground",
			Description: "Knockout rounds of the inter-hostel cricket tournament.",
			Category:    "Sports", Organizer: "Sports Committee", CreatedAt: now, UpdatedAt: now,
		},
	}

	for name, docs := range map[string][]any{"notices": notices, "events": events} {
		collection := db.Collection(name)
		if _, err := collection.DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("clearing %s: %v", name, err)
		}
		if _, err := collection.InsertMany(ctx, docs); err != nil {
			log.Fatalf("seeding %s: %v", name, err)
		}
		log.Printf("seeded %d %s", len(docs), name)
	}
}
