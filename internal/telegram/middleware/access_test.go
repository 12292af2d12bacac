package middleware

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

// senderCtx overrides only Sender; AdminOnly touches nothing else.
type senderCtx struct {
	tele.Context
	user *tele.User
}

func (c senderCtx) Sender() *tele.User { return c.user }

func TestAdminOnly(t *testing.T) {
	var called bool
	handler := func(tele.Context) error {
		called = true
		return nil
	}
	wrapped := AdminOnly(AdminOptions{AdminID: 42}, handler)

	if err := wrapped(senderCtx{user: &tele.User{ID: 7}}); err != nil {
		t.Fatalf("non-admin call: %v", err)
	}
	if called {
		t.Fatal("handler ran for non-admin")
	}

	if err := wrapped(senderCtx{user: &tele.User{ID: 42}}); err != nil {
		t.Fatalf("admin call: %v", err)
	}
	if !called {
		t.Fatal("handler did not run for admin")
	}
}

func TestAdminOnlyRejectHandler(t *testing.T) {
	var rejected bool
	wrapped := AdminOnly(AdminOptions{
		AdminID:  42,
		OnReject: func(tele.Context) error { rejected = true; return nil },
	}, func(tele.Context) error { t.Fatal("handler must not run"); return nil })

	if err := wrapped(senderCtx{user: &tele.User{ID: 7}}); err != nil {
		t.Fatalf("reject path: %v", err)
	}
	if !rejected {
		t.Fatal("OnReject not invoked")
	}
}

func TestAdminOnlyZeroIDPassthrough(t *testing.T) {
	var called bool
	wrapped := AdminOnly(AdminOptions{}, func(tele.Context) error {
		called = true
		return nil
	})
	if err := wrapped(senderCtx{user: &tele.User{ID: 7}}); err != nil {
		t.Fatalf("passthrough: %v", err)
	}
	if !called {
		t.Fatal("handler must run when no admin id is configured")
	}
}
