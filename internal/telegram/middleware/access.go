package middleware

import tele "gopkg.in/telebot.v4"

// AdminOptions defines how admin-only checks behave.
type AdminOptions struct {
	AdminID  int64
	OnReject tele.HandlerFunc
}

// AdminOnly wraps a handler enforcing admin-only execution.
// Non-admin calls are silently dropped unless OnReject is set.
func AdminOnly(opts AdminOptions, handler tele.HandlerFunc) tele.HandlerFunc {
	if opts.AdminID == 0 {
		return handler
	}
	return func(c tele.Context) error {
		sender := c.Sender()
		if sender == nil || sender.ID != opts.AdminID {
			if opts.OnReject != nil {
				return opts.OnReject(c)
			}
			return nil
		}
		return handler(c)
	}
}
