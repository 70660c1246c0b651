// Package change decides whether freshly fetched case data differs from the
// last stored snapshot and renders the user-facing description of the change.
package change

import (
	"strconv"
	"strings"

	"github.com/judicial-monitor/internal/domain"
)

const (
	noCaseNumber   = "sin radicación"
	noActivityDate = "sin registrar"
	noStatus       = "sin estado"
)

// Decide compares the previous snapshot (nil when the case was never observed)
// with the current case data. It returns the change description and true when
// there is something to report.
func Decide(prev *domain.ProcessSnapshot, cur *domain.CaseData) (string, bool) {
	if cur == nil || (cur.LastActivityDate == nil && cur.Status == nil) {
		return "", false
	}
	summary := Summary(cur)
	if prev == nil {
		return initialMessage(cur, summary), true
	}

	activityChanged := hasChanged(prev.LastActivityDate, cur.LastActivityDate)
	statusChanged := hasChanged(prev.LastStatus, cur.Status)
	summaryChanged := hasChanged(prev.Summary, summary)
	if !activityChanged && !statusChanged && !summaryChanged {
		return "", false
	}
	return changeMessage(cur, activityChanged, statusChanged, summaryChanged, summary), true
}

// Summary joins the latest activity's description and annotation with " - ".
// It is nil when the case has no activities or both parts are blank.
func Summary(cur *domain.CaseData) *string {
	latest := cur.LatestActivity()
	if latest == nil {
		return nil
	}
	var b strings.Builder
	if latest.Description != nil {
		b.WriteString(*latest.Description)
	}
	if latest.Annotation != nil && strings.TrimSpace(*latest.Annotation) != "" {
		if b.Len() > 0 {
			b.WriteString(" - ")
		}
		b.WriteString(*latest.Annotation)
	}
	if strings.TrimSpace(b.String()) == "" {
		return nil
	}
	s := b.String()
	return &s
}

// BuildSnapshot derives the state that will be stored as the comparison
// baseline for the next run.
func BuildSnapshot(cur *domain.CaseData) domain.ProcessSnapshot {
	s := domain.ProcessSnapshot{
		ProcessNumber:    cur.CaseNumber,
		LastActivityDate: cur.LastActivityDate,
		LastDecisionDate: cur.ProcessDate,
		LastStatus:       cur.Status,
		Summary:          Summary(cur),
	}
	if cur.ProcessID != nil {
		pid := strconv.FormatInt(*cur.ProcessID, 10)
		s.ProcessID = &pid
	}
	return s
}

// Title is the in-app notification title for a case.
func Title(caseNumber string) string {
	return "Actualización en proceso " + displayNumber(caseNumber)
}

// EmailSubject is the subject line of the update email for a case.
func EmailSubject(caseNumber string) string {
	return "Actualización del proceso " + displayNumber(caseNumber)
}

func hasChanged(prev, cur *string) bool {
	if prev == nil && cur == nil {
		return false
	}
	if prev == nil || cur == nil {
		return true
	}
	return *prev != *cur
}

func initialMessage(cur *domain.CaseData, summary *string) string {
	var b strings.Builder
	b.WriteString("Proceso ")
	b.WriteString(displayNumber(cur.CaseNumber))
	b.WriteString(": seguimiento iniciado.")
	if cur.LastActivityDate != nil {
		b.WriteString(" Última actuación registrada el ")
		b.WriteString(*cur.LastActivityDate)
		b.WriteString(".")
	}
	if summary != nil {
		b.WriteString(" ")
		b.WriteString(*summary)
	}
	return b.String()
}

func changeMessage(cur *domain.CaseData, activityChanged, statusChanged, summaryChanged bool, summary *string) string {
	var b strings.Builder
	b.WriteString("Proceso ")
	b.WriteString(displayNumber(cur.CaseNumber))
	b.WriteString(": se detectaron cambios.")
	if activityChanged {
		b.WriteString(" Última actuación: ")
		b.WriteString(valueOr(cur.LastActivityDate, noActivityDate))
	}
	if statusChanged {
		b.WriteString(" Estado actualizado: ")
		b.WriteString(valueOr(cur.Status, noStatus))
	}
	if summaryChanged && summary != nil {
		b.WriteString(" Detalle: ")
		b.WriteString(*summary)
	}
	return b.String()
}

func displayNumber(caseNumber string) string {
	if strings.TrimSpace(caseNumber) == "" {
		return noCaseNumber
	}
	return caseNumber
}

func valueOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
