package support

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/MeKo-Tech/polyglot/internal/server"
	"github.com/cucumber/godog"
)

// theDetectionServerIsRunning starts the in-process server with defaults.
func (testCtx *TestContext) theDetectionServerIsRunning() error {
	return testCtx.createTestHTTPServer(server.Config{})
}

// theDetectionServerIsRunningWithBatchLimit starts the server with a small
// batch limit.
func (testCtx *TestContext) theDetectionServerIsRunningWithBatchLimit(limit int) error {
	return testCtx.createTestHTTPServer(server.Config{MaxBatchSize: limit})
}

// theDetectionServerIsRunningWithRateLimit starts the server with a per
// minute request limit.
func (testCtx *TestContext) theDetectionServerIsRunningWithRateLimit(perMinute int) error {
	return testCtx.createTestHTTPServer(server.Config{
		RateLimit: server.RateLimitConfig{Enabled: true, RequestsPerMinute: perMinute},
	})
}

// theDetectionServerIsRunningWithCORSOrigin starts the server with a fixed
// allowed origin.
func (testCtx *TestContext) theDetectionServerIsRunningWithCORSOrigin(origin string) error {
	return testCtx.createTestHTTPServer(server.Config{CORSOrigin: origin})
}

// iStartTheServerProcess runs `polyglot serve` as a separate process.
func (testCtx *TestContext) iStartTheServerProcess() error {
	return testCtx.StartServer()
}

func (testCtx *TestContext) makeHTTPRequest(method, endpoint string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, testCtx.GetServerURL()+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	testCtx.LastHTTPStatusCode = resp.StatusCode
	testCtx.LastHTTPResponse = string(data)
	testCtx.LastHTTPHeaders = make(map[string]string, len(resp.Header))
	for name := range resp.Header {
		testCtx.LastHTTPHeaders[name] = resp.Header.Get(name)
	}
	return nil
}

// iGET makes a GET request to the specified endpoint.
func (testCtx *TestContext) iGET(endpoint string) error {
	return testCtx.makeHTTPRequest(http.MethodGet, endpoint, nil)
}

// iMakeAnOPTIONSRequestTo sends a CORS preflight request.
func (testCtx *TestContext) iMakeAnOPTIONSRequestTo(endpoint string) error {
	return testCtx.makeHTTPRequest(http.MethodOptions, endpoint, nil)
}

// iPOSTTextTo sends a detection request for text.
func (testCtx *TestContext) iPOSTTextTo(text, endpoint string) error {
	body, err := json.Marshal(server.DetectRequest{Text: text})
	if err != nil {
		return err
	}
	return testCtx.makeHTTPRequest(http.MethodPost, endpoint, body)
}

// iPOSTTextToTimes repeats a detection request.
func (testCtx *TestContext) iPOSTTextToTimes(text, endpoint string, times int) error {
	for range times {
		if err := testCtx.iPOSTTextTo(text, endpoint); err != nil {
			return err
		}
	}
	return nil
}

// iPOSTJSONTo sends a raw JSON body.
func (testCtx *TestContext) iPOSTJSONTo(endpoint string, body *godog.DocString) error {
	return testCtx.makeHTTPRequest(http.MethodPost, endpoint, []byte(body.Content))
}

// theResponseStatusShouldBe checks the HTTP status code.
func (testCtx *TestContext) theResponseStatusShouldBe(expected int) error {
	if testCtx.LastHTTPStatusCode != expected {
		return fmt.Errorf("expected status %d, got %d\nBody: %s",
			expected, testCtx.LastHTTPStatusCode, testCtx.LastHTTPResponse)
	}
	return nil
}

// theResponseShouldBeValidJSON verifies the response body is JSON.
func (testCtx *TestContext) theResponseShouldBeValidJSON() error {
	var js json.RawMessage
	if err := json.Unmarshal([]byte(testCtx.LastHTTPResponse), &js); err != nil {
		return fmt.Errorf("response is not valid JSON: %w\nBody: %s", err, testCtx.LastHTTPResponse)
	}
	return nil
}

// theResponseFieldShouldBe compares a dotted JSON path of the response.
func (testCtx *TestContext) theResponseFieldShouldBe(field, expected string) error {
	return checkJSONField(testCtx.LastHTTPResponse, field, expected)
}

// theResponseShouldContain checks the raw response body.
func (testCtx *TestContext) theResponseShouldContain(text string) error {
	if !strings.Contains(testCtx.LastHTTPResponse, text) {
		return fmt.Errorf("response does not contain '%s'\nBody: %s", text, testCtx.LastHTTPResponse)
	}
	return nil
}

// theResponseHeaderShouldBe checks a response header value.
func (testCtx *TestContext) theResponseHeaderShouldBe(name, expected string) error {
	actual, ok := testCtx.LastHTTPHeaders[http.CanonicalHeaderKey(name)]
	if !ok {
		return fmt.Errorf("header %s missing", name)
	}
	if actual != expected {
		return fmt.Errorf("header %s is '%s', expected '%s'", name, actual, expected)
	}
	return nil
}

// theResponseHeaderShouldBeSet checks that a response header exists.
func (testCtx *TestContext) theResponseHeaderShouldBeSet(name string) error {
	if _, ok := testCtx.LastHTTPHeaders[http.CanonicalHeaderKey(name)]; !ok {
		return fmt.Errorf("header %s missing", name)
	}
	return nil
}

// iSendSignalToTheServer sends a signal to the running server process.
func (testCtx *TestContext) iSendSignalToTheServer(signalName string) error {
	switch strings.ToUpper(signalName) {
	case "SIGTERM":
		return testCtx.SendSignalToServer(syscall.SIGTERM)
	case "SIGINT":
		return testCtx.SendSignalToServer(syscall.SIGINT)
	default:
		return fmt.Errorf("unsupported signal: %s", signalName)
	}
}

// theServerShouldShutdownGracefully verifies the process exits cleanly.
func (testCtx *TestContext) theServerShouldShutdownGracefully() error {
	if err := testCtx.waitForExit(15 * time.Second); err != nil {
		return fmt.Errorf("server did not shut down cleanly: %w", err)
	}
	testCtx.ServerProcess = nil

	if testCtx.isServerHealthy() {
		return errors.New("server is still responding after shutdown signal")
	}
	return nil
}

// RegisterServerSteps registers the HTTP server steps.
func (testCtx *TestContext) RegisterServerSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the detection server is running$`, testCtx.theDetectionServerIsRunning)
	sc.Step(`^the detection server is running with a batch limit of (\d+)$`,
		testCtx.theDetectionServerIsRunningWithBatchLimit)
	sc.Step(`^the detection server is running with a rate limit of (\d+) requests per minute$`,
		testCtx.theDetectionServerIsRunningWithRateLimit)
	sc.Step(`^the detection server is running with CORS origin "([^"]*)"$`,
		testCtx.theDetectionServerIsRunningWithCORSOrigin)
	sc.Step(`^I start the server process$`, testCtx.iStartTheServerProcess)

	sc.Step(`^I GET "([^"]*)"$`, testCtx.iGET)
	sc.Step(`^I make an OPTIONS request to "([^"]*)"$`, testCtx.iMakeAnOPTIONSRequestTo)
	sc.Step(`^I POST text "([^"]*)" to "([^"]*)"$`, testCtx.iPOSTTextTo)
	sc.Step(`^I POST text "([^"]*)" to "([^"]*)" (\d+) times$`, func(text, endpoint, times string) error {
		n, err := strconv.Atoi(times)
		if err != nil {
			return err
		}
		return testCtx.iPOSTTextToTimes(text, endpoint, n)
	})
	sc.Step(`^I POST JSON to "([^"]*)":$`, testCtx.iPOSTJSONTo)

	sc.Step(`^the response status should be (\d+)$`, testCtx.theResponseStatusShouldBe)
	sc.Step(`^the response should be valid JSON$`, testCtx.theResponseShouldBeValidJSON)
	sc.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, testCtx.theResponseFieldShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, testCtx.theResponseShouldContain)
	sc.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, testCtx.theResponseHeaderShouldBe)
	sc.Step(`^the response header "([^"]*)" should be set$`, testCtx.theResponseHeaderShouldBeSet)

	sc.Step(`^I send (SIG[A-Z]+) to the server$`, testCtx.iSendSignalToTheServer)
	sc.Step(`^the server should shutdown gracefully$`, testCtx.theServerShouldShutdownGracefully)
}
