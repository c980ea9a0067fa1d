package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/validation"
)

// Register prompts for name, email and a confirmed password and creates the
// account. Password buffers are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	user, err := a.api.Register(ctx, validation.RegisterInput{
		Name:      name,
		Email:     email,
		Password:  string(password),
		Password2: string(confirm),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s <%s>. You can log in now.\n", user.Name, user.Email)
	return nil
}

// Login prompts for credentials and keeps the issued token for later
// commands.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Login(ctx, validation.LoginInput{Email: email, Password: string(password)}); err != nil {
		return err
	}

	me, err := a.api.Current(ctx)
	if err != nil {
		return err
	}
	a.userName = me.Name

	fmt.Fprintf(a.out, "Logged in as %s.\n", me.Name)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	me, err := a.api.Current(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s> (id %s)\n", me.Name, me.Email, me.ID)
	return nil
}

// DeleteAccount asks for confirmation, then removes the profile, posts and
// account on the server.
func (a *App) DeleteAccount(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	ok, err := GetYesNo(a.reader, "This deletes your account, profile and posts. Continue?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.api.DeleteAccount(ctx); err != nil {
		return err
	}
	a.userName = ""

	fmt.Fprintln(a.out, "Account deleted.")
	return nil
}
