package service

import "time"

// Clock supplies the current time. Services fall back to time.Now when nil;
// tests inject a fixed clock to pin expiry and period boundaries.
type Clock func() time.Time

func (c Clock) or(fallback func() time.Time) time.Time {
	if c != nil {
		return c()
	}
	return fallback()
}

func (s *AccessService) now() time.Time     { return s.Clock.or(time.Now) }
func (s *LicenseService) now() time.Time    { return s.Clock.or(time.Now) }
func (s *AccessPassService) now() time.Time { return s.Clock.or(time.Now) }
