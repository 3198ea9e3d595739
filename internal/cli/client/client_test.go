package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finderai/hadithctl/internal/cli/types"
	"github.com/finderai/hadithctl/internal/domain"
)

func newTestClient(t *testing.T, server string) *APIClient {
	t.Helper()
	c, err := NewAPIClient(server, Options{
		Timeout: 5 * time.Second,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return c
}

func TestFetchAnswer_Structured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, types.ContractVersion, r.Header.Get("X-Contract-Version"))

		var req types.QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		assert.Equal(t, "What is the importance of intentions?", req.Query)
		assert.Equal(t, "session-1", req.SessionID)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"main_summary_english": "Deeds are judged by intentions.",
			"hadith_details": [
				{
					"thematic_title": "Intentions",
					"detailed_explanation_english": "Every action is weighed by its motive.",
					"original_arabic_text": "إنما الأعمال بالنيات",
					"original_english_text": "Actions are but by intentions.",
					"hadith_number": 1,
					"book_title": "Sahih al-Bukhari"
				},
				{
					"thematic_title": "Sincerity",
					"hadith_number": "54",
					"book_title": "Sahih Muslim"
				}
			],
			"final_conclusion_english": "Purify your intention."
		}`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	content, err := c.FetchAnswer(context.Background(), "What is the importance of intentions?", "session-1")
	require.NoError(t, err)

	answer, ok := content.(*domain.StructuredAnswer)
	require.True(t, ok, "expected structured answer, got %T", content)
	assert.Equal(t, "Deeds are judged by intentions.", answer.Summary)
	assert.Equal(t, "Purify your intention.", answer.Conclusion)
	require.Len(t, answer.Citations, 2)
	assert.Equal(t, domain.Citation{
		Title:           "Intentions",
		Explanation:     "Every action is weighed by its motive.",
		OriginalText:    "إنما الأعمال بالنيات",
		TranslatedText:  "Actions are but by intentions.",
		ReferenceNumber: "1",
		SourceTitle:     "Sahih al-Bukhari",
	}, answer.Citations[0])
	assert.Equal(t, "Sincerity", answer.Citations[1].Title)
	assert.Equal(t, "54", answer.Citations[1].ReferenceNumber)
}

func TestFetchAnswer_BodyVariants(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantText    string
		wantNoCites bool
	}{
		{name: "json string", body: `"plain reply"`, wantText: "plain reply"},
		{name: "json number", body: `42`, wantText: "42"},
		{name: "json null", body: `null`, wantText: ""},
		{name: "object without citations", body: `{"main_summary_english":"S"}`, wantNoCites: true},
		{name: "object with empty citations", body: `{"main_summary_english":"S","hadith_details":[]}`, wantNoCites: true},
		{name: "json array", body: `[{"thematic_title":"T"}]`, wantNoCites: true},
		{name: "empty json array", body: `[]`, wantNoCites: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			content, err := newTestClient(t, server.URL).FetchAnswer(context.Background(), "q", "s")
			require.NoError(t, err)

			cl := domain.Classify(content)
			assert.Equal(t, domain.KindText, cl.Kind)
			assert.Equal(t, tt.wantNoCites, cl.NoStructuredData)
			if !tt.wantNoCites {
				assert.Equal(t, tt.wantText, cl.Text)
			}
		})
	}
}

func TestFetchAnswer_ServerErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantDetail string
	}{
		{name: "internal error", status: http.StatusInternalServerError, body: "Internal Server Error", wantStatus: 500, wantDetail: "Internal Server Error"},
		{name: "fastapi detail", status: http.StatusUnprocessableEntity, body: `{"detail":"query must not be empty"}`, wantStatus: 422, wantDetail: "query must not be empty"},
		{name: "malformed payload", status: http.StatusOK, body: `{"main_summary_english": `, wantStatus: 200, wantDetail: "malformed response payload"},
		{name: "empty body", status: http.StatusOK, body: ``, wantStatus: 200, wantDetail: "malformed response payload"},
		{name: "unterminated array", status: http.StatusOK, body: `[1, 2`, wantStatus: 200, wantDetail: "malformed response payload"},
		{name: "bad hadith number", status: http.StatusOK, body: `{"hadith_details":[{"hadith_number":true}]}`, wantStatus: 200, wantDetail: "malformed response payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			content, err := newTestClient(t, server.URL).FetchAnswer(context.Background(), "q", "s")
			require.Error(t, err)
			assert.Nil(t, content)
			assert.True(t, domain.IsServerError(err), "expected server error, got %v", err)

			var re *domain.ResponseError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.wantStatus, re.StatusCode)
			assert.Equal(t, tt.wantDetail, re.Detail)
		})
	}
}

func TestFetchAnswer_NetworkUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	content, err := newTestClient(t, addr).FetchAnswer(context.Background(), "hello", "s")
	require.Error(t, err)
	assert.Nil(t, content)
	assert.True(t, domain.IsNetworkUnavailable(err), "expected network error, got %v", err)
	assert.Contains(t, domain.UserMessage(err), "Could not reach the backend")
}

func TestFetchAnswer_CanceledContextIsUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, server.URL).FetchAnswer(ctx, "hello", "s")
	require.Error(t, err)
	assert.Equal(t, domain.KindUnknown, domain.KindOf(err))
}

func TestNormalizeServerURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "localhost:8000", want: "http://localhost:8000"},
		{in: "https://finderai-backend.onrender.com/", want: "https://finderai-backend.onrender.com"},
		{in: "http://example.com/rag/", want: "http://example.com/rag"},
		{in: "  http://example.com  ", want: "http://example.com"},
		{in: "", wantErr: true},
		{in: "ftp://example.com", wantErr: true},
		{in: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeServerURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSafeDetail_Truncates(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	got := safeDetail(long)
	assert.Len(t, []rune(got), maxDetailLength+3)
	assert.Equal(t, "a b", safeDetail([]byte("a\nb\x00")))
}
