package support

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/MeKo-Tech/polyglot/internal/pipeline"
	"github.com/MeKo-Tech/polyglot/internal/server"
	"github.com/MeKo-Tech/polyglot/internal/testutil"
)

// HTTPTestServerWrapper wraps httptest.Server for integration tests.
type HTTPTestServerWrapper struct {
	Server     *httptest.Server
	TestServer *server.Server
}

// createTestHTTPServer serves the real handlers in process, backed by the
// fixture models.
func (testCtx *TestContext) createTestHTTPServer(config server.Config) error {
	if testCtx.ModelsDir == "" {
		if err := testCtx.theLanguageModelsAreAvailable(); err != nil {
			return err
		}
	}

	pl, err := pipeline.NewBuilder().
		WithModelsDir(testCtx.ModelsDir).
		WithLanguages(testutil.FixtureLanguages()).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	srv, err := server.NewServerWithPipeline(pl, config)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	mux := http.NewServeMux()
	srv.SetupRoutes(mux)

	testCtx.HTTPTestServer = &HTTPTestServerWrapper{
		Server:     httptest.NewServer(mux),
		TestServer: srv,
	}
	return nil
}

// stopTestHTTPServer stops the httptest server.
func (testCtx *TestContext) stopTestHTTPServer() error {
	if testCtx.HTTPTestServer == nil {
		return nil
	}
	testCtx.HTTPTestServer.Server.Close()
	err := testCtx.HTTPTestServer.TestServer.Close()
	testCtx.HTTPTestServer = nil
	return err
}
