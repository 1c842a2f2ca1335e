/*
Package authclient implements the client side of the daily-operations
reporting service's authentication lifecycle: acquiring a session, persisting
it, revalidating it in the background, refreshing it, and tearing it down.

# Overview

The package is organized around four cooperating pieces:

  - SessionStore: durable persistence of the current session (tokens, user,
    issue timestamp) written and cleared as a single unit.
  - CredentialBackend: the strategy for exchanging credentials. RemoteBackend
    talks to the reporting service over HTTP; LocalTableBackend validates
    against a static in-memory roster; FallbackBackend composes the two,
    falling back to the local table for the login operation only.
  - Manager: the single authoritative session state machine
    (unauthenticated, authenticating, authenticated, expired). Every state
    change goes through an explicit transition; everything else observes.
  - Monitor: a recurring liveness check that trips expiry while the Manager
    is authenticated, and stops ticking the moment it is not.

# Typical usage

	api := authclient.NewAPIClient("https://reports.example.com")
	store, err := authclient.OpenSQLiteStore(sessionFile)
	if err != nil {
		return err
	}
	defer store.Close()

	client := authclient.NewClient(authclient.NewFallbackBackend(api, authclient.NewLocalTableBackend()), store, logger)
	mgr := authclient.NewManager(client, logger)
	defer mgr.Close()

	// Restore a previous session, if one survives on disk.
	mgr.Restore(ctx)

	if _, err := mgr.Login(ctx, username, password); err != nil {
		// err wraps one of the package's sentinel errors
	}

	if mgr.HasAdminAccess() {
		// show the admin panel
	}

# Access control

Authorization derives from exactly one fact: the user's role. Roles
"admin_user" (and the legacy aliases "admin" and "supervisor") grant access
to the administrative views; "form_user" grants report submission only. The
gate predicates recompute session validity on every call and never cache the
answer; discovering an expired session during an access check forces a
logout as a side effect.

# Degraded mode

When the reporting service is unreachable during login, FallbackBackend
validates against a local credential table so field sites keep working
offline. The table stores passwords in cleartext and compares them directly;
this is inherited legacy behavior, see LocalTableBackend. Sessions minted
locally carry no refresh token: refreshing them simply re-stamps the issue
timestamp, and verification degrades to "token and user both present".
Remote refresh or verification failures are never papered over: the session
is torn down rather than silently extended.

# Concurrency

A Manager serializes transitions under one mutex, so a login response, a
monitor tick, and a user-initiated logout arriving together are applied one
after another, never merged. A refresh in flight suppresses a concurrent
expiry trip from the monitor until the refresh settles. All blocking
operations take a context.Context.
*/
package authclient
