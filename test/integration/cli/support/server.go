package support

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"syscall"
	"time"
)

// freePort asks the kernel for an unused TCP port.
func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer func() { _ = l.Close() }()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// StartServer starts `polyglot serve` as a separate process on a free port.
func (testCtx *TestContext) StartServer(extraArgs ...string) error {
	port, err := freePort()
	if err != nil {
		return fmt.Errorf("failed to find free port: %w", err)
	}
	testCtx.ServerPort = port
	testCtx.ServerHost = "127.0.0.1"

	args := append([]string{"serve", "--host", testCtx.ServerHost, "--port", strconv.Itoa(port)}, extraArgs...)
	cmd := exec.Command(resolveBinary("polyglot"), args...) //nolint:gosec // G204: suite-built binary
	cmd.Dir = testCtx.WorkingDir
	cmd.Env = append(os.Environ(), testCtx.EnvVars...)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	testCtx.ServerProcess = cmd.Process
	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()
	testCtx.ServerExited = exited

	if err := testCtx.waitForServerReady(); err != nil {
		if stopErr := testCtx.StopServerProcess(); stopErr != nil {
			return fmt.Errorf("server failed to start and also failed to stop: %w; stop error: %w", err, stopErr)
		}
		return fmt.Errorf("server failed to start: %w", err)
	}

	return nil
}

// StopServerProcess stops the running server process.
func (testCtx *TestContext) StopServerProcess() error {
	if testCtx.ServerProcess == nil {
		return nil
	}

	if err := testCtx.ServerProcess.Signal(syscall.SIGTERM); err != nil {
		if killErr := testCtx.ServerProcess.Kill(); killErr != nil {
			return fmt.Errorf("failed to kill server process: %w", killErr)
		}
	}

	err := testCtx.waitForExit(15 * time.Second)
	testCtx.ServerProcess = nil
	return err
}

// waitForExit waits for the server process to terminate.
func (testCtx *TestContext) waitForExit(timeout time.Duration) error {
	if testCtx.ServerExited == nil {
		return nil
	}
	select {
	case err := <-testCtx.ServerExited:
		testCtx.ServerExited = nil
		return err
	case <-time.After(timeout):
		return errors.New("server did not exit within timeout")
	}
}

// waitForServerReady waits for the server to respond to health checks.
func (testCtx *TestContext) waitForServerReady() error {
	deadline := time.Now().Add(10 * time.Second)

	for time.Now().Before(deadline) {
		if testCtx.isServerHealthy() {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	return errors.New("server did not become ready within timeout")
}

// isServerHealthy checks if the server responds to health endpoint.
func (testCtx *TestContext) isServerHealthy() bool {
	client := &http.Client{Timeout: time.Second}

	resp, err := client.Get(testCtx.GetServerURL() + "/health")
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// GetServerURL returns the base URL for the running server.
func (testCtx *TestContext) GetServerURL() string {
	if testCtx.HTTPTestServer != nil && testCtx.HTTPTestServer.Server != nil {
		return testCtx.HTTPTestServer.Server.URL
	}
	return fmt.Sprintf("http://%s:%d", testCtx.ServerHost, testCtx.ServerPort)
}

// SendSignalToServer sends a signal to the running server.
func (testCtx *TestContext) SendSignalToServer(signal os.Signal) error {
	if testCtx.ServerProcess == nil {
		return errors.New("no server process running")
	}

	return testCtx.ServerProcess.Signal(signal)
}
