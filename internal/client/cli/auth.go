package cli

import (
	"context"
	"os"
)

// getSimpleText and getSecret are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getSecret = GetSecret

// Login asks for an identity token (obtained from the provider's device
// flow), opens the session and kicks off an immediate sync so records
// made under this account on other devices appear right away.
func (a *App) Login(ctx context.Context) error {
	token, err := getSecret("Paste your ID token", os.Stdout)
	if err != nil {
		return err
	}

	user, err := a.auth.Login(ctx, string(token))
	if err != nil {
		a.log.Error(ctx, "login failed", "error", err)
		printlnFn("Login failed:", err.Error())
		return err
	}

	a.endSession()
	a.startSession(ctx, user)
	a.manager.SyncNow()

	printlnFn("Signed in as " + user.Email)
	return nil
}

// Logout tears down the sync loop and drops the session snapshot. Local
// records stay on disk for the next time this user signs in.
func (a *App) Logout(ctx context.Context) error {
	a.endSession()
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Signed out")
	return nil
}
