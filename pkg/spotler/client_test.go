package spotler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/natserract/spotler/pkg/config"
	httpclient "github.com/natserract/spotler/pkg/http"
	"github.com/natserract/spotler/pkg/spotler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var (
	testCreds       = spotler.Credentials{Key: "test-key", Secret: "test-secret"}
	errNetworkDown  = errors.New("network down")
	errUnknownError = errors.New("unexpected")
)

type sentRequest struct {
	endpoint string
	method   string
	body     any
}

type stubTransport struct {
	status int
	body   string
	err    error
	sent   []sentRequest
}

func (s *stubTransport) Send(_ context.Context, endpoint, method string, body any) (*httpclient.Response, error) {
	s.sent = append(s.sent, sentRequest{endpoint: endpoint, method: method, body: body})
	if s.err != nil {
		return nil, s.err
	}

	return &httpclient.Response{StatusCode: s.status, Body: []byte(s.body)}, nil
}

func (s *stubTransport) respond(status int, body string) {
	s.status = status
	s.body = body
	s.err = nil
}

func newStubClient(t *testing.T, opts ...spotler.Option) (*spotler.Client, *stubTransport) {
	t.Helper()

	stub := &stubTransport{}
	client, err := spotler.New(testCreds, append([]spotler.Option{spotler.WithTransport(stub)}, opts...)...)
	require.NoError(t, err)

	return client, stub
}

func TestNew_RequiresCredentials(t *testing.T) {
	t.Parallel()

	_, err := spotler.New(spotler.Credentials{Key: "key"})
	require.Error(t, err)

	_, err = spotler.New(spotler.Credentials{Secret: "secret"})
	require.Error(t, err)
}

func TestNew_WiresResourceServicesOnce(t *testing.T) {
	t.Parallel()

	client, _ := newStubClient(t)

	require.NotNil(t, client.Contact())
	require.NotNil(t, client.Campaign())
	require.NotNil(t, client.CampaignMailing())
	require.Same(t, client.Contact(), client.Contact())
	require.Same(t, client.Campaign(), client.Campaign())
	require.Same(t, client.CampaignMailing(), client.CampaignMailing())
}

func TestExecute_ReturnsParsedDocument(t *testing.T) {
	t.Parallel()

	client, stub := newStubClient(t)
	stub.respond(http.StatusOK, `{"id":1,"name":"Ann"}`)

	res, err := client.Execute(t.Context(), "contacts/1", http.MethodGet, nil)

	require.NoError(t, err)
	require.Equal(t, map[string]any{"id": float64(1), "name": "Ann"}, res.Value)
	require.Equal(t, []sentRequest{{endpoint: "contacts/1", method: http.MethodGet}}, stub.sent)
}

func TestExecute_DefaultsMethodToGet(t *testing.T) {
	t.Parallel()

	client, stub := newStubClient(t)
	stub.respond(http.StatusOK, `[]`)

	_, err := client.Execute(t.Context(), "campaigns", "", nil)

	require.NoError(t, err)
	require.Equal(t, http.MethodGet, stub.sent[0].method)
}

func TestExecute_PassesPayloadThrough(t *testing.T) {
	t.Parallel()

	client, stub := newStubClient(t)
	stub.respond(http.StatusCreated, `{"ok":true}`)

	payload := map[string]any{"name": "Ann"}
	_, err := client.Execute(t.Context(), "contact", http.MethodPost, payload)

	require.NoError(t, err)
	require.Equal(t, payload, stub.sent[0].body)
}

func TestExecute_Scenarios(t *testing.T) {
	t.Parallel()

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		client, stub := newStubClient(t)
		stub.respond(http.StatusNotFound, "")

		_, err := client.Execute(t.Context(), "contacts/999", http.MethodGet, nil)

		spErr := requireKind(t, err, spotler.KindNotFound, http.StatusNotFound)
		require.Equal(t, "Endpoint contacts/999 not found", spErr.Error())
	})

	t.Run("system error", func(t *testing.T) {
		t.Parallel()

		client, stub := newStubClient(t)
		stub.respond(http.StatusInternalServerError, "<html>error</html>")

		_, err := client.Execute(t.Context(), "campaigns", http.MethodGet, nil)

		spErr := requireKind(t, err, spotler.KindSystem, http.StatusInternalServerError)
		require.Equal(t, "System error on spotler server", spErr.Error())
	})

	t.Run("api error", func(t *testing.T) {
		t.Parallel()

		client, stub := newStubClient(t)
		stub.respond(http.StatusBadRequest, `{"message":"Bad field","errorType":"ValidationError"}`)

		_, err := client.Execute(t.Context(), "campaigns", http.MethodGet, nil)

		spErr := requireKind(t, err, spotler.KindAPI, http.StatusBadRequest)
		require.Equal(t, `Message: Bad field\nType: ValidationError`, spErr.Error())
	})

	t.Run("no content", func(t *testing.T) {
		t.Parallel()

		client, stub := newStubClient(t)
		stub.respond(http.StatusNoContent, "")

		res, err := client.Execute(t.Context(), "campaignmailings/5", http.MethodGet, nil)

		require.NoError(t, err)
		require.Equal(t, true, res.Value)
	})

	t.Run("soft failure", func(t *testing.T) {
		t.Parallel()

		client, stub := newStubClient(t)
		stub.respond(http.StatusOK, "")

		res, err := client.Execute(t.Context(), "campaigns", http.MethodGet, nil)

		require.NoError(t, err)
		require.Equal(t, spotler.ResultUnparseable, res.Kind)
		require.Equal(t, false, res.Value)
	})
}

func TestExecute_RecordsLastResponseOnEveryPath(t *testing.T) {
	t.Parallel()

	client, stub := newStubClient(t)

	require.Equal(t, 0, client.LastResponseCode())
	require.Empty(t, client.LastResponseBody())

	steps := []struct {
		status  int
		body    string
		wantErr bool
	}{
		{http.StatusOK, `{"id":1}`, false},
		{http.StatusNotFound, "gone", true},
		{http.StatusNoContent, "", false},
		{http.StatusBadRequest, `{"message":"m","errorType":"t"}`, true},
		{http.StatusBadGateway, "<html/>", true},
		{http.StatusAccepted, "not json", false},
	}

	for _, step := range steps {
		stub.respond(step.status, step.body)

		_, err := client.Execute(t.Context(), "campaigns", http.MethodGet, nil)

		require.Equal(t, step.wantErr, err != nil, "status %d", step.status)
		require.Equal(t, step.status, client.LastResponseCode())
		require.Equal(t, step.body, client.LastResponseBody())
	}
}

func TestExecute_WrapsTransportFailures(t *testing.T) {
	t.Parallel()

	client, stub := newStubClient(t)
	stub.respond(http.StatusOK, `{"id":1}`)

	_, err := client.Execute(t.Context(), "contacts/1", http.MethodGet, nil)
	require.NoError(t, err)

	stub.err = errNetworkDown

	_, err = client.Execute(t.Context(), "contacts/2", http.MethodGet, nil)

	spErr := requireKind(t, err, spotler.KindTransport, 0)
	require.ErrorIs(t, err, spotler.ErrTransport)
	require.ErrorIs(t, err, errNetworkDown)
	require.Contains(t, spErr.Error(), "network down")

	// No response was received, so the previous one is still visible.
	require.Equal(t, http.StatusOK, client.LastResponseCode())
	require.JSONEq(t, `{"id":1}`, client.LastResponseBody())
}

func TestExecute_DoesNotRewrapNormalizedErrors(t *testing.T) {
	t.Parallel()

	inner := &spotler.Error{Kind: spotler.KindAPI, Message: "already normalized", StatusCode: 418}

	client, stub := newStubClient(t)
	stub.err = inner

	_, err := client.Execute(t.Context(), "campaigns", http.MethodGet, nil)

	require.Same(t, inner, err)
}

func TestExecute_TreatsNilResponseAsTransportFailure(t *testing.T) {
	t.Parallel()

	client, err := spotler.New(testCreds, spotler.WithTransport(nilTransport{}))
	require.NoError(t, err)

	_, err = client.Execute(t.Context(), "campaigns", http.MethodGet, nil)

	requireKind(t, err, spotler.KindTransport, 0)
}

type nilTransport struct{}

func (nilTransport) Send(context.Context, string, string, any) (*httpclient.Response, error) {
	return nil, nil //nolint:nilnil
}

func TestExecute_LogsNormalizedErrors(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)

	client, stub := newStubClient(t, spotler.WithLogger(zap.New(core)))
	stub.respond(http.StatusBadRequest, `{"message":"Bad field","errorType":"ValidationError"}`)

	_, err := client.Execute(t.Context(), "campaigns", http.MethodPost, nil)
	require.Error(t, err)

	entries := logs.FilterMessage("Spotler returned an error response").All()
	require.Len(t, entries, 1)
	require.Equal(t, int64(http.StatusBadRequest), entries[0].ContextMap()["status_code"])

	stub.err = errUnknownError

	_, err = client.Execute(t.Context(), "campaigns", http.MethodGet, nil)
	require.Error(t, err)
	require.Equal(t, 1, logs.FilterMessage("Spotler request failed").Len())
}

func TestClient_EndToEndOverHTTP(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Authorization"), `oauth_consumer_key="test-key"`)

		switch r.URL.Path {
		case "/integrationservice/contact/1":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"externalId": "1"})
		case "/integrationservice/campaign/abc/trigger":
			assert.Equal(t, http.MethodPost, r.Method)

			var req spotler.TriggerRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "1", req.ExternalContactID)

			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := spotler.New(testCreds, spotler.WithBaseURL(server.URL+"/integrationservice"))
	require.NoError(t, err)

	res, err := client.Contact().Get(t.Context(), "1")
	require.NoError(t, err)
	require.Equal(t, map[string]any{"externalId": "1"}, res.Value)
	require.Equal(t, http.StatusOK, client.LastResponseCode())

	res, err = client.Campaign().Trigger(t.Context(), "abc", spotler.TriggerRequest{ExternalContactID: "1"})
	require.NoError(t, err)
	require.Equal(t, spotler.ResultNoContent, res.Kind)

	_, err = client.CampaignMailing().Get(t.Context(), "missing")
	require.ErrorIs(t, err, spotler.ErrNotFound)
	require.Equal(t, http.StatusNotFound, client.LastResponseCode())
}

func TestClient_EndToEndTransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	server.Close()

	client, err := spotler.New(testCreds, spotler.WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Campaign().List(t.Context())

	requireKind(t, err, spotler.KindTransport, 0)
	require.ErrorIs(t, err, httpclient.ErrRequestFailed)
}

func TestNewFromConfig_UsesConfiguredEndpoint(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/campaign", r.URL.Path)
		assert.Equal(t, "spotler-config-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[{"encryptedId":"abc"}]`))
	}))
	defer server.Close()

	client, err := spotler.NewFromConfig(&config.Config{
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		BaseURL:        server.URL + "/api",
		Timeout:        time.Second,
		UserAgent:      "spotler-config-test",
		LogLevel:       "error",
	})
	require.NoError(t, err)

	res, err := client.Campaign().List(t.Context())

	require.NoError(t, err)
	require.Equal(t, []any{map[string]any{"encryptedId": "abc"}}, res.Value)
}

func TestExecute_LastResponseBodyIsIndependentOfResult(t *testing.T) {
	t.Parallel()

	client, stub := newStubClient(t)
	stub.respond(http.StatusOK, `{"id":1}`)

	res, err := client.Execute(t.Context(), "contacts/1", http.MethodGet, nil)
	require.NoError(t, err)

	for i := range res.Raw {
		res.Raw[i] = 'x'
	}

	require.JSONEq(t, `{"id":1}`, client.LastResponseBody())
}

func TestExecute_LogsContentTypeOfUnparseableBody(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)

	client, err := spotler.New(testCreds, spotler.WithLogger(zap.New(core)), spotler.WithTransport(headerTransport{}))
	require.NoError(t, err)

	res, err := client.Execute(t.Context(), "campaigns", http.MethodGet, nil)
	require.NoError(t, err)
	require.Equal(t, spotler.ResultUnparseable, res.Kind)

	entries := logs.FilterMessage("Spotler response body is not valid JSON").All()
	require.Len(t, entries, 1)
	require.Equal(t, "text/html", entries[0].ContextMap()["content_type"])
}

type headerTransport struct{}

func (headerTransport) Send(context.Context, string, string, any) (*httpclient.Response, error) {
	return &httpclient.Response{
		StatusCode: http.StatusOK,
		Headers:    http.Header{"Content-Type": []string{"text/html"}},
		Body:       []byte("<html>maintenance</html>"),
	}, nil
}
