// Package timezone pins every wall-clock read to APP_TIMEZONE.
//
// Reservation dates (check-in, check-out) are calendar days stored in DATE
// columns, so they are kept as UTC midnights and only combined with this
// location when an instant is needed, such as the check-in hour used for refunds.
//
// Use IANA names such as "UTC" or "Asia/Jakarta"; an unknown name falls back
// to UTC with an error log.
package timezone
