package contextkeys

type contextKey string

// UserIDKey holds the authenticated user's id in the request context. Set by
// the auth middleware, read by every operation that records an acting user.
const UserIDKey contextKey = "userID"
