package change

import (
	"testing"

	"github.com/judicial-monitor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func caseData(number string, date, status *string, activities ...domain.CaseActivity) *domain.CaseData {
	return &domain.CaseData{
		CaseNumber:       number,
		LastActivityDate: date,
		Status:           status,
		Activities:       activities,
	}
}

func activity(desc, annotation string) domain.CaseActivity {
	a := domain.CaseActivity{Description: strPtr(desc)}
	if annotation != "" {
		a.Annotation = strPtr(annotation)
	}
	return a
}

func TestDecide_NoDateNoStatus_ReturnsNone(t *testing.T) {
	cur := caseData("2024-001", nil, nil, activity("Auto", "x"))

	_, ok := Decide(nil, cur)
	assert.False(t, ok)

	_, ok = Decide(&domain.ProcessSnapshot{ProcessNumber: "2024-001", LastStatus: strPtr("Activo")}, cur)
	assert.False(t, ok)
}

func TestDecide_FirstObservation_ReportsMonitoringStarted(t *testing.T) {
	cur := caseData("2024-001", strPtr("2024-01-10"), strPtr("Activo"), activity("Auto admisorio", "Se admite demanda"))

	msg, ok := Decide(nil, cur)
	require.True(t, ok)
	assert.Equal(t,
		"Proceso 2024-001: seguimiento iniciado. Última actuación registrada el 2024-01-10. Auto admisorio - Se admite demanda",
		msg)
}

func TestDecide_FirstObservation_StatusOnly(t *testing.T) {
	msg, ok := Decide(nil, caseData("2024-001", nil, strPtr("Activo")))
	require.True(t, ok)
	assert.Equal(t, "Proceso 2024-001: seguimiento iniciado.", msg)
}

func TestDecide_UnchangedCase_ReturnsNone(t *testing.T) {
	cur := caseData("2024-001", strPtr("2024-01-10"), strPtr("Activo"), activity("Auto", "Fija fecha"))
	prev := BuildSnapshot(cur)

	_, ok := Decide(&prev, cur)
	assert.False(t, ok)
}

func TestDecide_StatusChanged_OmitsActivityClause(t *testing.T) {
	prev := &domain.ProcessSnapshot{
		ProcessNumber:    "2024-001",
		LastActivityDate: strPtr("2024-01-10"),
		LastStatus:       strPtr("Activo"),
	}
	cur := caseData("2024-001", strPtr("2024-01-10"), strPtr("Archivado"))

	msg, ok := Decide(prev, cur)
	require.True(t, ok)
	assert.Equal(t, "Proceso 2024-001: se detectaron cambios. Estado actualizado: Archivado", msg)
	assert.NotContains(t, msg, "Última actuación")
}

func TestDecide_AllFieldsChanged_ClausesInFixedOrder(t *testing.T) {
	prev := &domain.ProcessSnapshot{
		ProcessNumber:    "2024-001",
		LastActivityDate: strPtr("2024-01-10"),
		LastStatus:       strPtr("Activo"),
		Summary:          strPtr("Auto"),
	}
	cur := caseData("2024-001", strPtr("2024-02-01"), strPtr("Archivado"), activity("Sentencia", ""))

	msg, ok := Decide(prev, cur)
	require.True(t, ok)
	assert.Equal(t,
		"Proceso 2024-001: se detectaron cambios. Última actuación: 2024-02-01 Estado actualizado: Archivado Detalle: Sentencia",
		msg)
}

func TestDecide_NullToValueCountsAsChange(t *testing.T) {
	prev := &domain.ProcessSnapshot{ProcessNumber: "1", LastStatus: strPtr("Activo")}
	cur := caseData("1", strPtr("2024-03-03"), strPtr("Activo"))

	msg, ok := Decide(prev, cur)
	require.True(t, ok)
	assert.Contains(t, msg, "Última actuación: 2024-03-03")
	assert.NotContains(t, msg, "Estado actualizado")
}

func TestDecide_ValueToNull_UsesPlaceholders(t *testing.T) {
	prev := &domain.ProcessSnapshot{
		ProcessNumber:    "1",
		LastActivityDate: strPtr("2024-01-10"),
		LastStatus:       strPtr("Activo"),
		Summary:          strPtr("Auto"),
	}
	cur := caseData("", strPtr("2024-01-10"), nil)

	msg, ok := Decide(prev, cur)
	require.True(t, ok)
	assert.Equal(t, "Proceso sin radicación: se detectaron cambios. Estado actualizado: sin estado", msg)
}

func TestSummary(t *testing.T) {
	assert.Nil(t, Summary(caseData("1", nil, nil)))
	assert.Nil(t, Summary(caseData("1", nil, nil, domain.CaseActivity{})))
	assert.Equal(t, "Auto", *Summary(caseData("1", nil, nil, activity("Auto", ""))))
	assert.Equal(t, "Auto", *Summary(caseData("1", nil, nil, activity("Auto", "   "))))
	assert.Equal(t, "Auto - Nota", *Summary(caseData("1", nil, nil, activity("Auto", "Nota"), activity("Viejo", ""))))
}

func TestBuildSnapshot(t *testing.T) {
	pid := int64(98765)
	cur := caseData("2024-001", strPtr("2024-01-10"), strPtr("Activo"), activity("Auto", "Nota"))
	cur.ProcessID = &pid
	cur.ProcessDate = strPtr("2023-12-01")

	s := BuildSnapshot(cur)
	assert.Equal(t, "2024-001", s.ProcessNumber)
	require.NotNil(t, s.ProcessID)
	assert.Equal(t, "98765", *s.ProcessID)
	assert.Equal(t, "2024-01-10", *s.LastActivityDate)
	assert.Equal(t, "2023-12-01", *s.LastDecisionDate)
	assert.Equal(t, "Activo", *s.LastStatus)
	assert.Equal(t, "Auto - Nota", *s.Summary)

	cur.ProcessID = nil
	assert.Nil(t, BuildSnapshot(cur).ProcessID)
}

func TestTitleAndSubject(t *testing.T) {
	assert.Equal(t, "Actualización en proceso 2024-001", Title("2024-001"))
	assert.Equal(t, "Actualización del proceso 2024-001", EmailSubject("2024-001"))
	assert.Equal(t, "Actualización en proceso sin radicación", Title(" "))
}
