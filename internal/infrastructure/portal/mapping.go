package portal

import (
	"regexp"
	"strings"

	"github.com/judicial-monitor/internal/domain"
)

const (
	notAvailable       = "NO DISPONIBLE"
	officeNotAvailable = "DESPACHO NO DISPONIBLE"
	typeNotAvailable   = "TIPO NO DISPONIBLE"
	defaultStatus      = "Activo"
)

var (
	plaintiffRe = regexp.MustCompile(`(?i)Demandante:\s*([^|]+)`)
	defendantRe = regexp.MustCompile(`(?i)Demandado:\s*([^|]+)`)
)

// rawSearchResponse is the body of Procesos/Consulta/NumeroRadicacion.
type rawSearchResponse struct {
	Procesos []rawProcess `json:"procesos"`
}

type rawProcess struct {
	IDProceso            *int64  `json:"idProceso"`
	LlaveProceso         *string `json:"llaveProceso"`
	FechaProceso         *string `json:"fechaProceso"`
	FechaUltimaActuacion *string `json:"fechaUltimaActuacion"`
	Despacho             *string `json:"despacho"`
	Departamento         *string `json:"departamento"`
	TipoProceso          *string `json:"tipoProceso"`
	SujetosProcesales    *string `json:"sujetosProcesales"`
	EsPrivado            bool    `json:"esPrivado"`
}

// rawActivitiesResponse is the body of Proceso/Actuaciones/{id}.
type rawActivitiesResponse struct {
	Actuaciones []rawActivity `json:"actuaciones"`
}

type rawActivity struct {
	IDActuacion          *int64  `json:"idActuacion"`
	ConsActuacion        *int64  `json:"consActuacion"`
	FechaActuacion       *string `json:"fechaActuacion"`
	Actuacion            *string `json:"actuacion"`
	Anotacion            *string `json:"anotacion"`
	FechaInicioTermino   *string `json:"fechaInicioTermino"`
	FechaFinalizaTermino *string `json:"fechaFinalizaTermino"`
	ConDocumentos        bool    `json:"conDocumentos"`
}

// rawEnvelope is the body shared by the v1 Process endpoints.
type rawEnvelope[T any] struct {
	IsSuccess bool `json:"isSuccess"`
	LsData    []T  `json:"lsData"`
}

type rawSubject struct {
	LnIdSujetoProceso    *int64  `json:"lnIdSujetoProceso"`
	LsNombreSujeto       *string `json:"lsNombreSujeto"`
	LsTipoSujeto         *string `json:"lsTipoSujeto"`
	LsIdentificacion     *string `json:"lsIdentificacion"`
	LsTipoIdentificacion *string `json:"lsTipoIdentificacion"`
	LsApoderado          *string `json:"lsApoderado"`
	LbTieneApoderado     *string `json:"lbTieneApoderado"` // "S" or "N"
}

type rawDocument struct {
	LnIdDocumento      *int64  `json:"lnIdDocumento"`
	LsNombreArchivo    *string `json:"lsNombreArchivo"`
	LsTipoDocumento    *string `json:"lsTipoDocumento"`
	LsUrlDescarga      *string `json:"lsUrlDescarga"`
	LnTamanoArchivo    *int64  `json:"lnTamanoArchivo"`
	LsExtensionArchivo *string `json:"lsExtensionArchivo"`
	LdFechaDocumento   *string `json:"ldFechaDocumento"`
}

// mapProcess turns the raw portal records into CaseData. Every field of the
// result is assigned here, so callers never touch the raw shapes.
func mapProcess(requested, publicURL string, p rawProcess, acts []rawActivity, parties []domain.CaseParty, docs []domain.CaseDocument) *domain.CaseData {
	number := requested
	if p.LlaveProceso != nil && strings.TrimSpace(*p.LlaveProceso) != "" {
		number = strings.TrimSpace(*p.LlaveProceso)
	}

	var filingDate *string
	if p.FechaProceso != nil {
		d, _, _ := strings.Cut(*p.FechaProceso, "T")
		filingDate = &d
	}

	plaintiff, defendant := parseParties(p.SujetosProcesales)
	status := defaultStatus

	return &domain.CaseData{
		ProcessID:        p.IDProceso,
		CaseNumber:       number,
		FilingDate:       filingDate,
		ProcessDate:      p.FechaProceso,
		LastActivityDate: p.FechaUltimaActuacion,
		Office:           stringOr(p.Despacho, officeNotAvailable),
		Department:       p.Departamento,
		CaseType:         stringOr(p.TipoProceso, typeNotAvailable),
		Plaintiff:        plaintiff,
		Defendant:        defendant,
		Subjects:         p.SujetosProcesales,
		Activities:       mapActivities(acts),
		Parties:          nonNil(parties),
		Documents:        nonNil(docs),
		IsPrivate:        p.EsPrivado,
		Status:           &status,
		PortalURL:        strings.TrimRight(publicURL, "/") + "/Procesos/NumeroRadicacion?numeroRadicacion=" + requested,
	}
}

func mapActivities(acts []rawActivity) []domain.CaseActivity {
	out := make([]domain.CaseActivity, 0, len(acts))
	for _, a := range acts {
		out = append(out, domain.CaseActivity{
			ActivityID:  a.IDActuacion,
			Sequence:    a.ConsActuacion,
			Date:        a.FechaActuacion,
			Description: a.Actuacion,
			Annotation:  a.Anotacion,
			TermStart:   a.FechaInicioTermino,
			TermEnd:     a.FechaFinalizaTermino,
			HasDocs:     a.ConDocumentos,
		})
	}
	return out
}

func mapSubjects(raw []rawSubject) []domain.CaseParty {
	out := make([]domain.CaseParty, 0, len(raw))
	for _, r := range raw {
		out = append(out, domain.CaseParty{
			SubjectID:          r.LnIdSujetoProceso,
			Name:               deref(r.LsNombreSujeto),
			Type:               deref(r.LsTipoSujeto),
			Identification:     deref(r.LsIdentificacion),
			IdentificationType: deref(r.LsTipoIdentificacion),
			Attorney:           deref(r.LsApoderado),
			HasAttorney:        strings.EqualFold(strings.TrimSpace(deref(r.LbTieneApoderado)), "S"),
		})
	}
	return out
}

func mapDocuments(activityID int64, raw []rawDocument) []domain.CaseDocument {
	out := make([]domain.CaseDocument, 0, len(raw))
	for _, r := range raw {
		out = append(out, domain.CaseDocument{
			DocumentID:   r.LnIdDocumento,
			ActivityID:   activityID,
			FileName:     deref(r.LsNombreArchivo),
			DocumentType: deref(r.LsTipoDocumento),
			DownloadURL:  deref(r.LsUrlDescarga),
			Size:         r.LnTamanoArchivo,
			Extension:    deref(r.LsExtensionArchivo),
			Date:         deref(r.LdFechaDocumento),
		})
	}
	return out
}

// parseParties extracts plaintiff and defendant from the portal's
// "Demandante: X | Demandado: Y" subject string.
func parseParties(subjects *string) (plaintiff, defendant string) {
	plaintiff, defendant = notAvailable, notAvailable
	if subjects == nil {
		return
	}
	if m := plaintiffRe.FindStringSubmatch(*subjects); m != nil {
		plaintiff = strings.TrimSpace(m[1])
	}
	if m := defendantRe.FindStringSubmatch(*subjects); m != nil {
		defendant = strings.TrimSpace(m[1])
	}
	return
}

func stringOr(v *string, fallback string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return fallback
	}
	return *v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
