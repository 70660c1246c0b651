package domain

// CaseData is the full record of a judicial process as returned by the portal.
// It is rebuilt on every fetch and never persisted as-is by the monitor.
// Nullable portal fields are pointers so that "absent" and "empty" stay distinct.
type CaseData struct {
	ProcessID        *int64         `json:"id_proceso"`
	CaseNumber       string         `json:"numero_radicacion"`
	FilingDate       *string        `json:"fecha_radicacion"`
	ProcessDate      *string        `json:"fecha_proceso"`
	LastActivityDate *string        `json:"fecha_ultima_actuacion"`
	Office           string         `json:"despacho"`
	Department       *string        `json:"departamento"`
	CaseType         string         `json:"tipo_proceso"`
	Plaintiff        string         `json:"demandante"`
	Defendant        string         `json:"demandado"`
	Subjects         *string        `json:"sujetos_procesales"`
	Activities       []CaseActivity `json:"actuaciones"`
	Parties          []CaseParty    `json:"sujetos"`
	Documents        []CaseDocument `json:"documentos"`
	IsPrivate        bool           `json:"es_privado"`
	Status           *string        `json:"estado"`
	PortalURL        string         `json:"portal_url"`
}

// CaseActivity is a single dated procedural event (actuación).
// Activities are kept in the order the portal returns them: most recent first.
type CaseActivity struct {
	ActivityID  *int64  `json:"id_actuacion"`
	Sequence    *int64  `json:"cons_actuacion"`
	Date        *string `json:"fecha_actuacion"`
	Description *string `json:"actuacion"`
	Annotation  *string `json:"anotacion"`
	TermStart   *string `json:"fecha_inicio_termino"`
	TermEnd     *string `json:"fecha_finaliza_termino"`
	HasDocs     bool    `json:"con_documentos"`
}

// CaseParty is one subject-party of the process.
type CaseParty struct {
	SubjectID          *int64 `json:"id_sujeto_proceso"`
	Name               string `json:"nombre_sujeto"`
	Type               string `json:"tipo_sujeto"`
	Identification     string `json:"identificacion,omitempty"`
	IdentificationType string `json:"tipo_identificacion,omitempty"`
	Attorney           string `json:"apoderado,omitempty"`
	HasAttorney        bool   `json:"tiene_apoderado"`
}

// CaseDocument is a document attached to an activity.
type CaseDocument struct {
	DocumentID   *int64 `json:"id_documento"`
	ActivityID   int64  `json:"id_actuacion"`
	FileName     string `json:"nombre_archivo"`
	DocumentType string `json:"tipo_documento,omitempty"`
	DownloadURL  string `json:"url_descarga"`
	Size         *int64 `json:"tamano_archivo,omitempty"`
	Extension    string `json:"extension_archivo,omitempty"`
	Date         string `json:"fecha_documento"`
}

// LatestActivity returns the first activity of the list, or nil when there are none.
func (c *CaseData) LatestActivity() *CaseActivity {
	if len(c.Activities) == 0 {
		return nil
	}
	return &c.Activities[0]
}
