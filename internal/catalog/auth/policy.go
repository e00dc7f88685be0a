// Package auth defines the authorization boundary of the catalog.
package auth

import (
	"context"
	"errors"
)

// ErrForbidden is returned when a policy denies an action.
var ErrForbidden = errors.New("forbidden")

// Action names a mutation class checked against the policy.
type Action string

const (
	ActionRegister Action = "register"
	ActionEdit     Action = "edit"
	ActionAdmin    Action = "admin"
)

// Policy decides whether an action on a resource is allowed.
type Policy interface {
	Allow(ctx context.Context, action Action, resource string) error
}

// AllowAll is the shipped policy: authorization is not yet implemented, so
// every check passes. The explicit type exists so the boundary is visible in
// the wiring and cannot be mistaken for a real enforcement point.
type AllowAll struct{}

// Allow implements Policy. It never denies.
func (AllowAll) Allow(context.Context, Action, string) error {
	return nil
}
