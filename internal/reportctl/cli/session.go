package cli

import (
	"context"
	"fmt"
	"time"
)

func (a *App) cmdLogin(ctx context.Context, args []string) error {
	var username string
	var err error

	if len(args) > 0 {
		username = args[0]
	} else {
		username, err = promptLine(a.in, "Username: ", a.out)
		if err != nil {
			return err
		}
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}

	password, err := promptPassword(a.out, "Password: ")
	if err != nil {
		return err
	}

	user, err := a.manager.Login(ctx, username, password)
	if err != nil {
		return err
	}

	mode := ""
	if sess, ok, _ := a.manager.Client().Store().Load(); ok && sess.Local {
		mode = " (offline session)"
	}
	fmt.Fprintf(a.out, "Signed in as %s (%s)%s\n", user.FullName, user.Role, mode)
	return nil
}

func (a *App) cmdLogout(ctx context.Context) error {
	if err := a.manager.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *App) cmdStatus() error {
	info := a.manager.SessionInfo()
	if info == nil {
		fmt.Fprintln(a.out, "No active session.")
		return nil
	}

	user, _ := a.manager.CurrentUser()
	fmt.Fprintf(a.out, "User:      %s (%s)\n", user.Username, user.Role)
	fmt.Fprintf(a.out, "Started:   %s\n", info.StartTime.Local().Format(time.RFC1123))
	fmt.Fprintf(a.out, "Expires:   %s\n", info.ExpiresAt.Local().Format(time.RFC1123))
	if info.IsExpired {
		fmt.Fprintln(a.out, "State:     expired")
	} else {
		fmt.Fprintf(a.out, "Time left: %s\n", info.TimeLeft.Round(time.Second))
	}
	return nil
}

func (a *App) cmdWhoami() error {
	user, ok := a.manager.CurrentUser()
	if !ok {
		return a.requireSession()
	}
	fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n", user.Username, user.FullName, user.Role, user.Area)
	return nil
}

func (a *App) cmdExtend(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if err := a.manager.ExtendSession(ctx); err != nil {
		return err
	}
	if info := a.manager.SessionInfo(); info != nil {
		fmt.Fprintf(a.out, "Session extended until %s\n", info.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

func (a *App) cmdPasswd(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	current, err := promptPassword(a.out, "Current password: ")
	if err != nil {
		return err
	}
	next, err := promptPassword(a.out, "New password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword(a.out, "Repeat new password: ")
	if err != nil {
		return err
	}
	if next != confirm {
		return fmt.Errorf("passwords do not match")
	}

	if err := a.manager.Client().ChangePassword(ctx, current, next); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed.")
	return nil
}
