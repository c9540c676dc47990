package services

import (
	"testing"

	"fintrack/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("jo@example.com", "secret-password", "Jo", "Doe")
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Password == "secret-password" {
			t.Error("password stored in plaintext")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("dup@example.com", "secret-password", "A", "B")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("dup@example.com", "other-password", "C", "D")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})
}

func TestAttemptLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	_, err := svc.CreateUser("login@example.com", "correct-password", "A", "B")
	testutil.AssertNoError(t, err)

	t.Run("valid", func(t *testing.T) {
		user, err := svc.AttemptLogin("login@example.com", "correct-password")
		testutil.AssertNoError(t, err)
		if user.Email != "login@example.com" {
			t.Errorf("unexpected user: %+v", user)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := svc.AttemptLogin("login@example.com", "wrong-password")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		// Same error as a wrong password so callers cannot probe for
		// registered addresses.
		_, err := svc.AttemptLogin("nobody@example.com", "whatever")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}
