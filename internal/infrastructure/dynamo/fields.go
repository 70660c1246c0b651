package dynamo

// DynamoDB attribute names used in key conditions and update expressions.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUserID         = "user_id"
	fieldCaseNumber     = "numero_radicacion"
	fieldProcessNumber  = "process_number"
	fieldNotificationID = "notification_id"
	fieldIsRead         = "is_read"
	fieldReadAt         = "read_at"

	indexUserCreatedAt = "user_id-created_at-index"
)
