package database

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"chargehub/config"
)

// FirestoreClient is the global Firestore client instance, the store of
// record for bookings and slots.
var FirestoreClient *firestore.Client

// InitDB initializes the Firestore connection through the Firebase admin SDK.
func InitDB() {
	ctx := context.Background()

	conf := &firebase.Config{ProjectID: config.AppConfig.FirebaseProjectID}
	var opts []option.ClientOption
	if config.AppConfig.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.AppConfig.FirebaseCredentialsFile))
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		log.Fatalf("failed to initialize firebase app: %v", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		log.Fatalf("failed to create firestore client: %v", err)
	}
	FirestoreClient = client
	log.Println("Connected to Firestore successfully!")
}
