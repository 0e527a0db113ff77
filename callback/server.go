// Package callback runs the localhost listener for the browser login flow.
// The identity provider redirects back with the tokens either as query
// parameters or, in the SPA style, as a URL fragment; fragments never reach
// the server, so the listener serves a small bounce page that rewrites the
// fragment into query parameters before delivering.
package callback

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const CallbackPath = "/auth/callback"

const bouncePage = `<!DOCTYPE html>
<html><body><script>
(function () {
  var fragment = window.location.hash.substring(1);
  if (fragment) {
    window.location.replace(window.location.pathname + "?" + fragment);
  } else {
    document.body.textContent = "No token received.";
  }
})();
</script></body></html>`

// Result is one login outcome delivered by the listener.
type Result struct {
	AccessToken  string
	RefreshToken string
	Err          error
}

// Server is a single-use callback listener. It delivers exactly one Result
// and ignores later hits.
type Server struct {
	echo    *echo.Echo
	addr    string
	results chan Result
	once    sync.Once
}

func New(addr string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		addr:    addr,
		results: make(chan Result, 1),
	}
	e.GET(CallbackPath, s.handleCallback)
	return s
}

// URL is the redirect target to hand to the identity provider.
func (s *Server) URL() string {
	return "http://" + s.addr + CallbackPath
}

// Start runs the listener in the background.
func (s *Server) Start() {
	go func() {
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("callback listener failed: %v", err)
			s.deliver(Result{Err: err})
		}
	}()
}

// Wait blocks until a callback arrives or the context ends.
func (s *Server) Wait(ctx context.Context) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case res := <-s.results:
		return res, res.Err
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleCallback(c echo.Context) error {
	accessToken := c.QueryParam("access_token")
	refreshToken := c.QueryParam("refresh_token")
	errParam := c.QueryParam("error")

	if errParam != "" {
		log.Warnf("login callback returned error: %s", errParam)
		s.deliver(Result{Err: errors.New("authentication error: " + errParam)})
		return c.String(http.StatusOK, "Login failed: "+errParam)
	}

	if accessToken == "" {
		// Likely a fragment delivery; let the bounce page rewrite it.
		return c.HTML(http.StatusOK, bouncePage)
	}

	log.Infof("login callback received a token")
	s.deliver(Result{AccessToken: accessToken, RefreshToken: refreshToken})
	return c.String(http.StatusOK, "Login complete. You can close this tab.")
}

func (s *Server) deliver(res Result) {
	s.once.Do(func() {
		s.results <- res
	})
}
