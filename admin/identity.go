package admin

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

// Identity is the account side of the auth collaborator: enabling, disabling
// and deleting sign-in for a user.
type Identity interface {
	DisableUser(ctx context.Context, uid string) error
	EnableUser(ctx context.Context, uid string) error
	DeleteUser(ctx context.Context, uid string) error
}

// FirebaseIdentity implements Identity on Firebase Auth.
type FirebaseIdentity struct {
	client *auth.Client
}

func NewFirebaseIdentity(client *auth.Client) *FirebaseIdentity {
	return &FirebaseIdentity{client: client}
}

func (f *FirebaseIdentity) DisableUser(ctx context.Context, uid string) error {
	if _, err := f.client.UpdateUser(ctx, uid, (&auth.UserToUpdate{}).Disabled(true)); err != nil {
		return fmt.Errorf("disable user %s: %w", uid, err)
	}
	return nil
}

func (f *FirebaseIdentity) EnableUser(ctx context.Context, uid string) error {
	if _, err := f.client.UpdateUser(ctx, uid, (&auth.UserToUpdate{}).Disabled(false)); err != nil {
		return fmt.Errorf("enable user %s: %w", uid, err)
	}
	return nil
}

func (f *FirebaseIdentity) DeleteUser(ctx context.Context, uid string) error {
	err := f.client.DeleteUser(ctx, uid)
	if err != nil && !auth.IsUserNotFound(err) {
		return fmt.Errorf("delete user %s: %w", uid, err)
	}
	return nil
}
