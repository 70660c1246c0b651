package domain

// ProcessSnapshot is the last observed state of a case, shared by every user
// that follows the same case number. PK: process_number.
type ProcessSnapshot struct {
	ProcessNumber    string  `json:"process_number" dynamodbav:"process_number"`
	ProcessID        *string `json:"process_id" dynamodbav:"process_id"`
	LastActivityDate *string `json:"last_activity_date" dynamodbav:"last_activity_date"`
	LastDecisionDate *string `json:"last_decision_date" dynamodbav:"last_decision_date"`
	LastStatus       *string `json:"last_status" dynamodbav:"last_status"`
	Summary          *string `json:"summary" dynamodbav:"summary"`
}
