package domain

import "time"

// FavoriteProcess is a user's subscription to updates on a case.
// PK: user_id, SK: numero_radicacion, so a (user, case) pair exists at most once.
type FavoriteProcess struct {
	UserID     string    `json:"user_id" dynamodbav:"user_id"`
	CaseNumber string    `json:"numero_radicacion" dynamodbav:"numero_radicacion"`
	Office     string    `json:"despacho" dynamodbav:"despacho"`
	Plaintiff  string    `json:"demandante" dynamodbav:"demandante"`
	Defendant  string    `json:"demandado" dynamodbav:"demandado"`
	CaseType   string    `json:"tipo_proceso" dynamodbav:"tipo_proceso"`
	FilingDate string    `json:"fecha_radicacion" dynamodbav:"fecha_radicacion"`
	CreatedAt  time.Time `json:"created_at" dynamodbav:"created_at"`
}

type CreateFavoriteRequest struct {
	CaseNumber string `json:"numero_radicacion" validate:"required,casenumber,max=40"`
	Office     string `json:"despacho"`
	Plaintiff  string `json:"demandante"`
	Defendant  string `json:"demandado"`
	CaseType   string `json:"tipo_proceso"`
	FilingDate string `json:"fecha_radicacion"`
}
