// Package portal fetches case records from the Rama Judicial consultation API.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/judicial-monitor/internal/config"
	"github.com/judicial-monitor/internal/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	searchPath     = "/api/v2/Procesos/Consulta/NumeroRadicacion"
	activitiesPath = "/api/v2/Proceso/Actuaciones/"
	subjectsPath   = "/api/v1/Process/GetSujetosProcesales"
	documentsPath  = "/api/Process/GetDocumentos"
	maxBodyBytes   = 4 << 20
)

// Client is a rate-limited HTTP client for the judicial portal.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	baseURL   string
	publicURL string
	log       logrus.FieldLogger
}

func NewClient(cfg config.Portal, log logrus.FieldLogger) *Client {
	return &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		log:       log,
	}
}

// FetchCase returns the current record for caseNumber, or nil without error
// when the portal does not know the case.
func (c *Client) FetchCase(ctx context.Context, caseNumber string, activeOnly bool) (*domain.CaseData, error) {
	number := strings.TrimSpace(caseNumber)
	if number == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("numero", number)
	q.Set("SoloActivos", strconv.FormatBool(activeOnly))
	q.Set("pagina", "1")

	var search rawSearchResponse
	if err := c.getJSON(ctx, c.baseURL+searchPath+"?"+q.Encode(), &search); err != nil {
		return nil, fmt.Errorf("search case %s: %w", number, err)
	}
	if len(search.Procesos) == 0 {
		return nil, nil
	}
	proc := search.Procesos[0]

	log := c.log.WithField("case_number", number)

	var acts []rawActivity
	if proc.IDProceso != nil {
		var err error
		acts, err = c.fetchActivities(ctx, *proc.IDProceso)
		if err != nil {
			log.WithError(err).Warn("portal: activities unavailable")
			acts = nil
		}
	}

	parties, err := c.fetchSubjects(ctx, number)
	if err != nil {
		log.WithError(err).Warn("portal: subjects unavailable")
		parties = nil
	}
	docs := c.fetchDocuments(ctx, log, number, acts)

	data := mapProcess(number, c.publicURL, proc, acts, parties, docs)
	if strings.TrimSpace(data.CaseNumber) == "" {
		return nil, nil
	}
	return data, nil
}

func (c *Client) fetchActivities(ctx context.Context, processID int64) ([]rawActivity, error) {
	var resp rawActivitiesResponse
	u := c.baseURL + activitiesPath + strconv.FormatInt(processID, 10) + "?pagina=1"
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}
	return resp.Actuaciones, nil
}

func (c *Client) fetchSubjects(ctx context.Context, number string) ([]domain.CaseParty, error) {
	var resp rawEnvelope[rawSubject]
	body := map[string]interface{}{"lsNroRadicacion": number}
	if err := c.postJSON(ctx, c.publicURL+subjectsPath, body, &resp); err != nil {
		return nil, err
	}
	if !resp.IsSuccess {
		return nil, nil
	}
	return mapSubjects(resp.LsData), nil
}

// fetchDocuments collects the documents of every activity flagged as having
// them. A failing activity contributes no documents; the rest are kept.
func (c *Client) fetchDocuments(ctx context.Context, log logrus.FieldLogger, number string, acts []rawActivity) []domain.CaseDocument {
	var docs []domain.CaseDocument
	for _, a := range acts {
		if !a.ConDocumentos || a.IDActuacion == nil {
			continue
		}
		var resp rawEnvelope[rawDocument]
		body := map[string]interface{}{"lsNroRadicacion": number, "lnIdActuacion": *a.IDActuacion}
		if err := c.postJSON(ctx, c.publicURL+documentsPath, body, &resp); err != nil {
			log.WithError(err).WithField("activity_id", *a.IDActuacion).Warn("portal: documents unavailable")
			continue
		}
		if resp.IsSuccess {
			docs = append(docs, mapDocuments(*a.IDActuacion, resp.LsData)...)
		}
	}
	return docs
}

func (c *Client) getJSON(ctx context.Context, u string, dst interface{}) error {
	return c.do(ctx, http.MethodGet, u, nil, dst)
}

func (c *Client) postJSON(ctx context.Context, u string, payload, dst interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, u, b, dst)
}

func (c *Client) do(ctx context.Context, method, u string, body []byte, dst interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	c.log.WithFields(logrus.Fields{
		"method":      method,
		"url":         u,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("portal request")

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("portal returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("decode portal response: %w", err)
	}
	return nil
}
