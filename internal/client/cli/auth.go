package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/blogdesk/internal/client/models"
	"github.com/dmitrijs2005/blogdesk/internal/common"
)

// getSimpleText, getPassword, getMultiline and confirm are indirections used
// to facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
	confirm       = Confirm
)

var errEmailRequired = &models.ValidationError{Field: "email", Message: "Email is required"}

// Register collects the registration form, validates it locally and creates
// the account. Success logs the user in with the same credentials.
func (a *App) Register(ctx context.Context) error {
	var form models.RegisterForm
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"First name", &form.FirstName},
		{"Last name", &form.LastName},
		{"User name", &form.UserName},
		{"Email", &form.Email},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirmation, err := getPassword(a.out, "Confirm password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirmation)

	form.Password = string(password)
	form.ConfirmPassword = string(confirmation)

	if err := form.Validate(); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	if err := a.session.Register(ctx, form.RegisterRequest); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	fmt.Fprintf(a.out, "Registration successful. Welcome, %s!\n", form.UserName)
	return nil
}

// Login prompts for credentials and authenticates. The failure message comes
// from the session manager and is printed as is.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	if email == "" {
		fmt.Fprintln(a.out, errEmailRequired.Error())
		return errEmailRequired
	}

	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	name := email
	if u := a.session.Snapshot().User; u != nil {
		name = u.DisplayName()
	}
	fmt.Fprintf(a.out, "Logged in as %s.\n", name)
	return nil
}

// Logout ends the session locally. Logging out twice is harmless.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		a.logger.Error(ctx, "logout", "err", err)
		fmt.Fprintln(a.out, "Logged out, but the saved session could not be removed.")
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoAmI prints the current session.
func (a *App) WhoAmI(ctx context.Context) error {
	s := a.session.Snapshot()
	if !s.IsAuthenticated {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	if s.User == nil {
		fmt.Fprintln(a.out, "Logged in.")
		return nil
	}
	fmt.Fprintf(a.out, "Logged in as %s <%s>, role %s.\n", s.User.DisplayName(), s.User.Email, s.User.Role)
	return nil
}
