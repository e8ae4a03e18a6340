// Package firebase owns the process-wide Firebase app shared by the
// Firestore profile store and the Firebase Auth identity store.
package firebase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"skool-sync/pkg/logger"

	"cloud.google.com/go/firestore"
	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// Scopes requested for the service account token
var Scopes = []string{
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/datastore",
	"https://www.googleapis.com/auth/identitytoolkit",
	"https://www.googleapis.com/auth/userinfo.email",
}

// Credentials identifies the Firebase project and the service account used to reach it
type Credentials struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string
	DatabaseURL string
}

var (
	mu  sync.Mutex
	app *fb.App
)

// App returns the shared Firebase app, initializing it on first use.
// The app lives for the rest of the process.
func App(ctx context.Context, creds Credentials, log *logger.Logger) (*fb.App, error) {
	mu.Lock()
	defer mu.Unlock()

	if app != nil {
		return app, nil
	}

	log.WithFields(map[string]interface{}{
		"project_id":         creds.ProjectID,
		"client_email":       creds.ClientEmail,
		"private_key_length": len(creds.PrivateKey),
	}).Info("Initializing Firebase app")

	opts, err := ClientOptions(ctx, creds)
	if err != nil {
		return nil, err
	}

	initialized, err := fb.NewApp(ctx, &fb.Config{
		ProjectID:   creds.ProjectID,
		DatabaseURL: creds.DatabaseURL,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	app = initialized
	log.Info("Firebase app initialized")
	return app, nil
}

// Auth returns an auth client from the shared app
func Auth(ctx context.Context, creds Credentials, log *logger.Logger) (*auth.Client, error) {
	a, err := App(ctx, creds, log)
	if err != nil {
		return nil, err
	}
	client, err := a.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firebase auth client: %w", err)
	}
	return client, nil
}

// Firestore returns a Firestore client from the shared app. The caller closes it.
func Firestore(ctx context.Context, creds Credentials, log *logger.Logger) (*firestore.Client, error) {
	a, err := App(ctx, creds, log)
	if err != nil {
		return nil, err
	}
	client, err := a.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return client, nil
}

// ClientOptions builds Google client options from explicit service account
// fields. With no private key it returns nil and the SDK falls back to
// application default credentials.
func ClientOptions(ctx context.Context, creds Credentials) ([]option.ClientOption, error) {
	if creds.PrivateKey == "" {
		return nil, nil
	}

	data, err := serviceAccountJSON(creds)
	if err != nil {
		return nil, err
	}

	googleCreds, err := google.CredentialsFromJSON(ctx, data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Firebase service account: %w", err)
	}

	return []option.ClientOption{option.WithCredentials(googleCreds)}, nil
}

type serviceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	PrivateKey  string `json:"private_key"`
	ClientEmail string `json:"client_email"`
	TokenURI    string `json:"token_uri"`
}

func serviceAccountJSON(creds Credentials) ([]byte, error) {
	if creds.ClientEmail == "" {
		return nil, fmt.Errorf("FIREBASE_CLIENT_EMAIL is required when FIREBASE_PRIVATE_KEY is set")
	}

	data, err := json.Marshal(serviceAccount{
		Type:        "service_account",
		ProjectID:   creds.ProjectID,
		PrivateKey:  creds.PrivateKey,
		ClientEmail: creds.ClientEmail,
		TokenURI:    google.JWTTokenURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode service account: %w", err)
	}
	return data, nil
}
