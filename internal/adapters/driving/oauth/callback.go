// Package oauth implements the loopback redirect listener for the
// authorization-code flow, plus small browser helpers.
package oauth

import (
	"context"
	"fmt"
	"html"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"
)

const (
	callbackPath = "/callback"

	// handlerTimeout bounds a single redirect request.
	handlerTimeout = 10 * time.Second

	// stopTimeout bounds the drain on Stop.
	stopTimeout = 5 * time.Second
)

// callbackResult is the terminal outcome of one sign-in attempt:
// either an authorization code or the reason none will arrive.
type callbackResult struct {
	code string
	err  error
}

// CallbackServer listens on localhost for the provider redirect and
// hands the authorization code to the waiting sign-in flow. Only the
// first outcome counts; replayed redirects are dropped.
type CallbackServer struct {
	mu       sync.Mutex
	port     int
	state    string
	results  chan callbackResult
	server   *http.Server
	listener net.Listener
}

// NewCallbackServer creates a listener bound to the given state value.
// Redirects carrying any other state are rejected.
func NewCallbackServer(port int, state string) *CallbackServer {
	return &CallbackServer{
		port:    port,
		state:   state,
		results: make(chan callbackResult, 1),
	}
}

// Start binds the listener and begins serving. Port 0 picks an
// ephemeral port; Port reports the one actually bound.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, s.handleCallback)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  handlerTimeout,
		WriteTimeout: handlerTimeout,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.deliver(callbackResult{err: err})
		}
	}()

	return nil
}

// handleCallback validates one redirect from the provider. Every
// branch renders a page for the browser tab; the outcome goes to the
// waiting flow through the result channel.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	w.Header().Set("Content-Type", "text/html")

	if reason := q.Get("error"); reason != "" {
		desc := q.Get("error_description")
		s.deliver(callbackResult{err: fmt.Errorf("oauth error: %s - %s", reason, desc)})
		fmt.Fprint(w, successHTML("Sign-in failed: "+html.EscapeString(desc), ""))
		return
	}

	if state := q.Get("state"); state != s.state {
		s.deliver(callbackResult{err: fmt.Errorf("state mismatch: expected %s, got %s", s.state, state)})
		fmt.Fprint(w, successHTML("Sign-in failed: invalid state parameter", ""))
		return
	}

	code := q.Get("code")
	if code == "" {
		s.deliver(callbackResult{err: fmt.Errorf("no authorization code received")})
		fmt.Fprint(w, successHTML("Sign-in failed: no code received", ""))
		return
	}

	s.deliver(callbackResult{code: code})
	fmt.Fprint(w, successHTML("Signed in!", "You can close this window and return to the terminal."))
}

// deliver hands off the first result and drops the rest.
func (s *CallbackServer) deliver(res callbackResult) {
	select {
	case s.results <- res:
	default:
	}
}

// WaitForCode blocks until a redirect lands or the timeout expires.
func (s *CallbackServer) WaitForCode(timeout time.Duration) (string, error) {
	select {
	case res := <-s.results:
		return res.code, res.err
	case <-time.After(timeout):
		return "", fmt.Errorf("timeout waiting for authorization callback")
	}
}

// Stop drains in-flight requests and shuts the listener down. Safe to
// call repeatedly and on a server that never started.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Port returns the bound port.
func (s *CallbackServer) Port() int {
	return s.port
}

// RedirectURI returns the redirect URI registered with the provider.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d%s", s.port, callbackPath)
}

//nolint:misspell // CSS properties use American spelling
func successHTML(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>GraphSeek - Sign in</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #FAFAFA;
        }
        .container {
            text-align: center;
            background: white;
            padding: 48px 64px;
            border-radius: 16px;
            border: 1px solid #C7C8CC;
            box-shadow: 0 4px 24px rgba(0,0,0,0.08);
        }
        .logo {
            font-size: 40px;
            font-weight: 700;
            letter-spacing: -1px;
            color: #333F50;
            margin-bottom: 32px;
        }
        .logo span {
            color: #6675FF;
        }
        h1 {
            color: #333F50;
            margin: 0 0 8px 0;
            font-size: 24px;
            font-weight: 600;
        }
        p {
            color: #7B8088;
            margin: 0;
            font-size: 16px;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">graph<span>seek</span></div>
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, title, message)
}

// OpenBrowser opens the default browser to the given URL.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// FindAvailablePort finds an available port in the given range.
func FindAvailablePort(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}
