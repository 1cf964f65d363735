package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/licitacrm/licitacrm/internal/client/client"
	"github.com/licitacrm/licitacrm/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and opens a session. The password is
// wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	p, err := a.api.Login(ctx, email, password)
	if err != nil {
		fmt.Fprintf(a.out, "Login unsuccessful: %v\n", err)
		return err
	}

	a.profile = p
	fmt.Fprintf(a.out, "Logged in as %s\n", p.Email)
	return nil
}

// Logout ends the session. The server always accepts it.
func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		fmt.Fprintf(a.out, "Logout failed: %v\n", err)
		return err
	}
	a.profile = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// WhoAmI calls the protected probe; the client renews an expired access
// token once on the way.
func (a *App) WhoAmI(ctx context.Context) error {
	p, err := a.api.Session(ctx)
	if err != nil {
		a.reportSessionError(err)
		return err
	}
	a.profile = p
	fmt.Fprintf(a.out, "%s (%s) id=%s\n", p.Email, p.Role, p.ID)
	return nil
}

func (a *App) Verify(ctx context.Context) error {
	p, err := a.api.Verify(ctx)
	if err != nil {
		a.reportSessionError(err)
		return err
	}
	fmt.Fprintf(a.out, "Access token valid for %s\n", p.Email)
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	p, err := a.api.Refresh(ctx)
	if err != nil {
		a.reportSessionError(err)
		return err
	}
	a.profile = p
	fmt.Fprintln(a.out, "Access token renewed")
	return nil
}

func (a *App) reportSessionError(err error) {
	if errors.Is(err, client.ErrUnauthorized) {
		a.profile = nil
		fmt.Fprintf(a.out, "Not authenticated: %v. Please login.\n", err)
		return
	}
	fmt.Fprintf(a.out, "Request failed: %v\n", err)
}
