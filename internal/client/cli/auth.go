package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/healthkeeper/internal/client/client"
	"github.com/dmitrijs2005/healthkeeper/internal/client/models"
	"github.com/dmitrijs2005/healthkeeper/internal/client/services"
	"github.com/dmitrijs2005/healthkeeper/internal/netx"
)

// getSimpleText, getPassword and getYesNo are indirections used to facilitate
// testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getYesNo      = GetYesNo
)

// Register prompts for the account fields and creates the account. On
// success the new session becomes current.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	role, err := getSimpleText(a.reader, "Enter role (patient/provider)", a.out)
	if err != nil {
		return err
	}
	consent, err := getYesNo(a.reader, "Do you consent to data processing?", a.out)
	if err != nil {
		return err
	}

	u, err := a.authService.Register(ctx, models.RegisterRequest{
		Name:         name,
		Email:        email,
		Password:     password,
		Role:         role,
		ConsentGiven: consent,
	})
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "Registered and logged in as %s\n", u.Email)
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}

	u, err := a.authService.Login(ctx, email, password)
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", u.Email)
	return nil
}

// Me prints the current user's profile as stored on the server.
func (a *App) Me(ctx context.Context) error {
	u, err := a.authService.Profile(ctx)
	if err != nil {
		return a.report(err)
	}
	a.printUser(u)
	return nil
}

func (a *App) EditName(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.report(services.ErrNotLoggedIn)
	}
	name, err := getSimpleText(a.reader, "Enter new name", a.out)
	if err != nil {
		return err
	}

	u, err := a.authService.ChangeName(ctx, name)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Name changed to %s\n", u.Name)
	return nil
}

func (a *App) EditEmail(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.report(services.ErrNotLoggedIn)
	}
	email, err := getSimpleText(a.reader, "Enter new email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter current password", a.out)
	if err != nil {
		return err
	}

	u, err := a.authService.ChangeEmail(ctx, email, password)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Email changed to %s\n", u.Email)
	return nil
}

// Logout forgets the session token.
func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) printUser(u *models.User) {
	consent := "no"
	if u.ConsentGiven {
		consent = "yes"
	}
	fmt.Fprintf(a.out, "ID:      %s\nName:    %s\nEmail:   %s\nRole:    %s\nConsent: %s\nSince:   %s\n",
		u.ID, u.Name, u.Email, u.Role, consent, u.CreatedAt.Format("2006-01-02"))
}

// report prints a user-facing description of err and returns it.
func (a *App) report(err error) error {
	var se *netx.StatusError
	switch {
	case errors.As(err, &se):
		fmt.Fprintln(a.out, "Error:", se.Message)
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintf(a.out, "Error: %s is not reachable\n", a.config.ServerURL)
	default:
		fmt.Fprintln(a.out, "Error:", err.Error())
	}
	return err
}
