package globals

var (
	// JwtSecret is set by the advisory proxy at startup. Empty means the
	// advisory endpoints are public.
	JwtSecret []byte
)

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const RequestIDKey ContextKey = "requestId"

// TokenKey is the fixed storage key the bearer token lives under.
const TokenKey = "token"

// AllCategories is the category sentinel meaning "no filter".
const AllCategories = "All"
