package smtp

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailer_SendHTML_BuildsMIMEMessage(t *testing.T) {
	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
		gotAuth smtp.Auth
	)
	m := &mailer{host: "mail.local", port: "1025", from: "noreply@example.com", send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotTo, gotMsg = addr, a, to, string(msg)
		return nil
	}}

	require.NoError(t, m.SendHTML("ana@example.com", "Actualización del proceso 1", "<p>hola</p>"))
	assert.Equal(t, "mail.local:1025", gotAddr)
	assert.Nil(t, gotAuth)
	assert.Equal(t, []string{"ana@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Content-Type: text/html; charset=\"UTF-8\"\r\n")
	assert.Contains(t, gotMsg, "Subject: =?utf-8?q?")
	assert.True(t, strings.HasSuffix(gotMsg, "\r\n\r\n<p>hola</p>"))
}

func TestMailer_SendHTML_EmptyRecipient(t *testing.T) {
	called := false
	m := &mailer{send: func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}}
	assert.Error(t, m.SendHTML(" ", "s", "b"))
	assert.False(t, called)
}

func TestMailer_SendHTML_RejectsHeaderInjection(t *testing.T) {
	called := false
	send := func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}
	m := &mailer{host: "h", port: "25", from: "noreply@example.com", send: send}

	for _, to := range []string{
		"a@b.com\r\nBcc: x@y.z",
		"a@b.com\nBcc: x@y.z",
		"a@b.com\r",
		"not an address",
	} {
		assert.Error(t, m.SendHTML(to, "s", "b"), "recipient %q", to)
	}

	bad := &mailer{host: "h", port: "25", from: "noreply@example.com\r\nBcc: x@y.z", send: send}
	assert.ErrorContains(t, bad.SendHTML("a@b.com", "s", "b"), "sender")
	assert.False(t, called)
}

func TestMailer_SendHTML_PropagatesError(t *testing.T) {
	m := &mailer{host: "h", port: "25", from: "noreply@example.com", username: "u", password: "p", send: func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}}
	assert.ErrorContains(t, m.SendHTML("a@b.com", "s", "b"), "connection refused")
}

func TestRenderProcessUpdate(t *testing.T) {
	html, err := RenderProcessUpdate("https://app.example/", "2024-001", "Proceso 2024-001: <cambio>")
	require.NoError(t, err)
	assert.Contains(t, html, "Actualización del proceso 2024-001")
	assert.Contains(t, html, `href="https://app.example/processes/2024-001"`)
	assert.Contains(t, html, "&lt;cambio&gt;")

	html, err = RenderProcessUpdate("", "2024-001", "x")
	require.NoError(t, err)
	assert.NotContains(t, html, "href=")
}
