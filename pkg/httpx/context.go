package httpx

import "context"

type ctxKey string

const (
	// CtxKeySubject is the authenticated caller (service name or user ID).
	CtxKeySubject ctxKey = "subject"
	CtxKeyScopes  ctxKey = "scopes"
	CtxKeyClaims  ctxKey = "claims"
)

// SubjectFromCtx returns the authenticated subject, or "" when the request
// was not authenticated.
func SubjectFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeySubject).(string); ok {
		return v
	}
	return ""
}

func scopesFromCtx(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyScopes).([]string); ok {
		return v
	}
	return nil
}
