package dynamo

// DynamoDB attribute names of the email code table.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEmail     = "email"
	fieldAttempts  = "attempts"
	fieldExpiresAt = "expires_at"
)
