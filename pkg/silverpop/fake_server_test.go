package silverpop_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/natserract/silverpop/pkg/codec"
	"github.com/natserract/silverpop/pkg/silverpop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

const (
	testUsername = "api@example.com"
	testPassword = "secret"
	testListID   = "12345"
)

// fakeSilverpop is an in-memory stand-in for the XML API endpoint.
type fakeSilverpop struct {
	t *testing.T

	mu         sync.Mutex
	sessionID  string
	logins     int
	calls      map[string]int
	paths      []string
	recipients map[string]map[string]map[string]string
	// alwaysExpired rejects every non-login call with errorid 140.
	alwaysExpired bool
}

func newFakeSilverpop(t *testing.T) (*fakeSilverpop, *httptest.Server) {
	t.Helper()

	f := &fakeSilverpop{
		t:          t,
		calls:      map[string]int{},
		recipients: map[string]map[string]map[string]string{},
	}
	server := httptest.NewServer(f)
	t.Cleanup(server.Close)
	return f, server
}

func (f *fakeSilverpop) addRecipient(listID, email string, columns map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recipients[listID] == nil {
		f.recipients[listID] = map[string]map[string]string{}
	}
	f.recipients[listID][email] = columns
}

// expireSession invalidates the current session server side.
func (f *fakeSilverpop) expireSession() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessionID = ""
}

func (f *fakeSilverpop) callCount(operation string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[operation]
}

func (f *fakeSilverpop) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins
}

func (f *fakeSilverpop) requestPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

func (f *fakeSilverpop) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	assert.Equal(f.t, http.MethodPost, r.Method)
	assert.Equal(f.t, "text/xml;charset=utf-8", r.Header.Get("Content-Type"))

	raw, err := io.ReadAll(r.Body)
	if !assert.NoError(f.t, err) {
		return
	}
	doc, err := codec.Decode(raw)
	if !assert.NoError(f.t, err) {
		return
	}
	body, ok := codec.LookupMap(doc, "Envelope", "Body")
	if !assert.True(f.t, ok, "request without Envelope.Body: %s", raw) || !assert.Len(f.t, body, 1) {
		return
	}

	f.paths = append(f.paths, r.URL.Path)
	sessionID := ""
	if i := strings.Index(r.URL.Path, ";jsessionid="); i >= 0 {
		sessionID = r.URL.Path[i+len(";jsessionid="):]
	}

	for operation, payload := range body {
		f.calls[operation]++
		fields, _ := payload.(map[string]any)
		f.write(w, f.handle(operation, sessionID, fields))
	}
}

func (f *fakeSilverpop) handle(operation, sessionID string, fields map[string]any) codec.Fields {
	if operation == "Login" {
		if fields["USERNAME"] != testUsername || fields["PASSWORD"] != testPassword {
			return fault("51", "Invalid user name or password.")
		}
		f.logins++
		f.sessionID = fmt.Sprintf("SESSION%04d", f.logins)
		return success(codec.Fields{
			{Name: "SESSIONID", Value: f.sessionID},
			{Name: "ORGANIZATION_ID", Value: "org-1"},
			{Name: "SESSION_ENCODING", Value: ";jsessionid=" + f.sessionID},
		})
	}

	if f.alwaysExpired || sessionID == "" || sessionID != f.sessionID {
		return fault(silverpop.ErrorIDNotAuthenticated, "Session has expired or is invalid.")
	}

	listID, _ := fields["LIST_ID"].(string)
	switch operation {
	case "Logout":
		f.sessionID = ""
		return success(nil)
	case "SelectRecipientData":
		email, _ := fields["EMAIL"].(string)
		columns, ok := f.recipients[listID][email]
		if !ok {
			return fault("128", "Recipient is not a member of the list.")
		}
		var cols []codec.Fields
		for name, value := range columns {
			cols = append(cols, codec.Fields{{Name: "NAME", Value: name}, {Name: "VALUE", Value: value}})
		}
		return success(codec.Fields{
			{Name: "EMAIL", Value: email},
			{Name: "Email", Value: email},
			{Name: "RecipientId", Value: "9001"},
			{Name: "EmailType", Value: "0"},
			{Name: "COLUMNS", Value: codec.Fields{{Name: "COLUMN", Value: cols}}},
		})
	case "AddRecipient":
		columns := map[string]string{}
		for _, entry := range codec.List(fields["COLUMN"]) {
			column, _ := entry.(map[string]any)
			name, _ := column["NAME"].(string)
			value, _ := column["VALUE"].(string)
			columns[name] = value
		}
		email := columns["EMAIL"]
		delete(columns, "EMAIL")
		if f.recipients[listID] == nil {
			f.recipients[listID] = map[string]map[string]string{}
		}
		f.recipients[listID][email] = columns
		return success(codec.Fields{{Name: "RecipientId", Value: "9002"}})
	case "UpdateRecipient":
		email, _ := fields["OLD_EMAIL"].(string)
		columns, ok := f.recipients[listID][email]
		if !ok {
			return fault("128", "Recipient is not a member of the list.")
		}
		for _, entry := range codec.List(fields["COLUMN"]) {
			column, _ := entry.(map[string]any)
			name, _ := column["NAME"].(string)
			value, _ := column["VALUE"].(string)
			columns[name] = value
		}
		return success(codec.Fields{{Name: "RecipientId", Value: "9001"}})
	case "RemoveRecipient":
		email, _ := fields["EMAIL"].(string)
		if _, ok := f.recipients[listID][email]; !ok {
			return fault("128", "Recipient is not a member of the list.")
		}
		delete(f.recipients[listID], email)
		return success(nil)
	default:
		return fault("1", "Unknown API.")
	}
}

func (f *fakeSilverpop) write(w http.ResponseWriter, response codec.Fields) {
	out, err := codec.Encode(response)
	if !assert.NoError(f.t, err) {
		return
	}
	w.Header().Set("Content-Type", "text/xml;charset=UTF-8")
	_, _ = w.Write(out)
}

func success(fields codec.Fields) codec.Fields {
	result := append(codec.Fields{{Name: "SUCCESS", Value: "TRUE"}}, fields...)
	return codec.Fields{{Name: "Envelope", Value: codec.Fields{
		{Name: "Body", Value: codec.Fields{{Name: "RESULT", Value: result}}},
	}}}
}

func fault(errorID, message string) codec.Fields {
	return codec.Fields{{Name: "Envelope", Value: codec.Fields{
		{Name: "Body", Value: codec.Fields{
			{Name: "RESULT", Value: codec.Fields{{Name: "SUCCESS", Value: "false"}}},
			{Name: "Fault", Value: codec.Fields{
				{Name: "Request", Value: nil},
				{Name: "FaultCode", Value: nil},
				{Name: "FaultString", Value: message},
				{Name: "detail", Value: codec.Fields{
					{Name: "error", Value: codec.Fields{
						{Name: "errorid", Value: errorID},
						{Name: "module", Value: nil},
						{Name: "class", Value: "SP.API"},
						{Name: "method", Value: nil},
					}},
				}},
			}},
		}},
	}}}
}

func testConfig(server *httptest.Server) *silverpop.Config {
	return &silverpop.Config{
		URL:      server.URL + "/XMLAPI",
		Username: testUsername,
		Password: testPassword,
	}
}

func newTestClient(t *testing.T, server *httptest.Server) *silverpop.Client {
	t.Helper()
	return newTestClientWithLogger(t, server, zaptest.NewLogger(t))
}

func newTestClientWithLogger(t *testing.T, server *httptest.Server, logger *zap.Logger) *silverpop.Client {
	t.Helper()
	client, err := silverpop.NewClientWithLogger(t.Context(), testConfig(server), logger)
	require.NoError(t, err)
	return client
}
