package upshop

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&Config{
		BaseURL:        baseURL,
		StoreNumber:    12,
		RequestTimeout: 5 * time.Second,
		PollInterval:   5 * time.Millisecond,
		PollTimeout:    time.Second,
	})
}

func TestAuthenticate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "svc-user", body["username"])
		require.Equal(t, "secret", body["password"])

		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1"})
	}))
	defer srv.Close()

	token, err := newTestClient(srv.URL).Authenticate(context.Background(), "svc-user", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}

func TestAuthenticateMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Authenticate(context.Background(), "u", "p")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestAuthenticateHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Authenticate(context.Background(), "u", "p")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindHTTP, apiErr.Kind)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	// Operator hint for 401 rides along in the message.
	assert.Contains(t, apiErr.Error(), "credentials")
}

func TestAuthenticateNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>proxy error</html>"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Authenticate(context.Background(), "u", "p")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindDecode, apiErr.Kind)
	assert.Contains(t, apiErr.Body, "proxy error")
}

func TestAuthenticateNetworkError(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newTestClient(srv.URL).Authenticate(context.Background(), "u", "p")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindNetwork, apiErr.Kind)
}

func TestSubmitExportJob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/export/orders", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		var body struct {
			ApprovedFlag bool  `json:"approved_flag"`
			StoreNumber  []int `json:"store_number"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.True(t, body.ApprovedFlag)
		require.Equal(t, []int{12}, body.StoreNumber)

		// Numeric job ids are seen in the wild.
		w.Write([]byte(`{"job_id": 98765}`))
	}))
	defer srv.Close()

	jobID, err := newTestClient(srv.URL).SubmitExportJob(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "98765", jobID)
}

func TestWaitForJobSuccess(t *testing.T) {
	var polls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/job_status/j-1", r.URL.Path)

		n := atomic.AddInt32(&polls, 1)
		switch {
		case n == 1:
			json.NewEncoder(w).Encode(map[string]interface{}{"status": "queued"})
		case n == 2:
			json.NewEncoder(w).Encode(map[string]interface{}{"status": "running"})
		default:
			// Terminal match is trimmed and case-insensitive.
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "  Finished ",
				"data": []map[string]interface{}{
					{"case_order_number": "100045", "vendor_number": "778", "sku": "889900"},
				},
			})
		}
	}))
	defer srv.Close()

	lines, err := newTestClient(srv.URL).WaitForJob(context.Background(), "tok-1", "j-1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "100045", lines[0].CaseOrderNumber.String())
	assert.GreaterOrEqual(t, atomic.LoadInt32(&polls), int32(3))
}

func TestWaitForJobStateFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Older API versions report under "state".
		json.NewEncoder(w).Encode(map[string]interface{}{"state": "FINISHED", "data": []interface{}{}})
	}))
	defer srv.Close()

	lines, err := newTestClient(srv.URL).WaitForJob(context.Background(), "tok-1", "j-1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestWaitForJobFailure(t *testing.T) {
	for _, terminal := range []string{"failed", "error", "Cancelled", "canceled"} {
		t.Run(terminal, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]interface{}{
					"status":  terminal,
					"message": "store not configured",
				})
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).WaitForJob(context.Background(), "tok-1", "j-1")
			var jobErr *JobFailedError
			require.ErrorAs(t, err, &jobErr)
			assert.Equal(t, "store not configured", jobErr.Message)
		})
	}
}

func TestWaitForJobTimeoutOnUnknownStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "reticulating"})
	}))
	defer srv.Close()

	c := NewClient(&Config{
		BaseURL:      srv.URL,
		StoreNumber:  12,
		PollInterval: 5 * time.Millisecond,
		PollTimeout:  30 * time.Millisecond,
	})

	_, err := c.WaitForJob(context.Background(), "tok-1", "j-1")
	var timeoutErr *JobTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "reticulating", timeoutErr.LastStatus)
}

func TestWaitForJobContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "running"})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	// Cancellation can land between polls (context.Canceled) or mid-request
	// (APIError wrapping it); either way the wait must stop promptly.
	start := time.Now()
	_, err := newTestClient(srv.URL).WaitForJob(ctx, "tok-1", "j-1")
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
