package scheduling

import "bookwise/backend/internal/domain"

// authorizeProvider is the single gate for provider-side status changes: the
// caller must hold the provider role and be the provider the appointment is bound to.
func authorizeProvider(caller domain.Identity, appt domain.Appointment) error {
	if !caller.IsProvider() {
		return ErrForbidden
	}
	if !appt.BoundTo(caller.UserID) {
		return ErrForbidden
	}
	return nil
}
