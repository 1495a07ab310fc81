//nolint:noctx // Test file uses http.Get for convenience; context not required in tests
package oauth

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer starts a callback server on an ephemeral port and stops
// it when the test finishes.
func startServer(t *testing.T, state string) *CallbackServer {
	t.Helper()
	server := NewCallbackServer(0, state)
	require.NoError(t, server.Start())
	t.Cleanup(func() { _ = server.Stop() })
	return server
}

// callbackURL builds a redirect hit against the running server.
func callbackURL(server *CallbackServer, query string) string {
	return fmt.Sprintf("%s?%s", server.RedirectURI(), query)
}

func TestCallbackServer_EphemeralPort(t *testing.T) {
	server := startServer(t, "state-1")

	// Port 0 resolves to whatever the kernel handed out.
	assert.NotZero(t, server.Port())
	assert.Equal(t,
		fmt.Sprintf("http://localhost:%d/callback", server.Port()),
		server.RedirectURI())
}

func TestCallbackServer_DeliversCode(t *testing.T) {
	server := startServer(t, "state-abc")

	resp, err := http.Get(callbackURL(server, "code=code-xyz&state=state-abc"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))

	code, err := server.WaitForCode(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "code-xyz", code)
}

func TestCallbackServer_RejectsStateMismatch(t *testing.T) {
	server := NewCallbackServer(0, "expected-state")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/callback?code=code-xyz&state=ExPeCtEd-StAtE", nil)
	server.handleCallback(rec, req)

	_, err := server.WaitForCode(time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state mismatch")
	assert.Contains(t, rec.Body.String(), "invalid state")

	// The forged code was never queued behind the rejection.
	code, err := server.WaitForCode(50 * time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
	assert.Empty(t, code)
}

func TestCallbackServer_RejectsMissingState(t *testing.T) {
	server := NewCallbackServer(0, "expected-state")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/callback?code=code-xyz", nil)
	server.handleCallback(rec, req)

	_, err := server.WaitForCode(time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state mismatch")
}

func TestCallbackServer_RejectsMissingCode(t *testing.T) {
	server := NewCallbackServer(0, "expected-state")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/callback?state=expected-state", nil)
	server.handleCallback(rec, req)

	_, err := server.WaitForCode(time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no authorization code received")
}

func TestCallbackServer_ProviderError(t *testing.T) {
	server := NewCallbackServer(0, "expected-state")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/callback?error=access_denied&error_description=consent+%22declined%22", nil)
	server.handleCallback(rec, req)

	_, err := server.WaitForCode(time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
	assert.Contains(t, err.Error(), `consent "declined"`)

	// The description is escaped before it lands in the page.
	assert.Contains(t, rec.Body.String(), "consent &#34;declined&#34;")
	assert.NotContains(t, rec.Body.String(), `consent "declined"`)
}

func TestCallbackServer_FirstCodeWins(t *testing.T) {
	server := NewCallbackServer(0, "expected-state")

	for _, code := range []string{"first", "second"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/callback?code="+code+"&state=expected-state", nil)
		server.handleCallback(rec, req)
		assert.Contains(t, rec.Body.String(), "Signed in!")
	}

	code, err := server.WaitForCode(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "first", code)

	// The replay was dropped, so a second wait times out.
	_, err = server.WaitForCode(50 * time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestCallbackServer_WaitForCode_Timeout(t *testing.T) {
	server := NewCallbackServer(0, "expected-state")

	code, err := server.WaitForCode(50 * time.Millisecond)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout waiting for authorization callback")
	assert.Empty(t, code)
}

func TestCallbackServer_PortInUse(t *testing.T) {
	first := startServer(t, "state-1")

	second := NewCallbackServer(first.Port(), "state-2")
	err := second.Start()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestCallbackServer_StopIdempotent(t *testing.T) {
	server := NewCallbackServer(0, "state")

	// Never started.
	require.NoError(t, server.Stop())

	require.NoError(t, server.Start())
	require.NoError(t, server.Stop())
	require.NoError(t, server.Stop())
}

func TestCallbackServer_UnknownPathIs404(t *testing.T) {
	server := startServer(t, "state")

	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/authorize", server.Port()))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSuccessHTML_Branding(t *testing.T) {
	page := successHTML("Signed in!", "You can close this window.")

	assert.Contains(t, page, "<!DOCTYPE html>")
	assert.Contains(t, page, "GraphSeek - Sign in")
	assert.Contains(t, page, `graph<span>seek</span>`)
	assert.Contains(t, page, "<h1>Signed in!</h1>")
	assert.Contains(t, page, "<p>You can close this window.</p>")
}

func TestFindAvailablePort(t *testing.T) {
	port, err := FindAvailablePort(10000, 10100)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, port, 10000)
	assert.LessOrEqual(t, port, 10100)
}

func TestFindAvailablePort_Exhausted(t *testing.T) {
	server := startServer(t, "state")

	// The only port in range is already bound by the callback server.
	port, err := FindAvailablePort(server.Port(), server.Port())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no available port")
	assert.Zero(t, port)
}

func TestFindAvailablePort_InvertedRange(t *testing.T) {
	port, err := FindAvailablePort(10100, 10000)

	require.Error(t, err)
	assert.Zero(t, port)
}
