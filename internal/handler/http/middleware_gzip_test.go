// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, data string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return &buf
}

func gunzip(t *testing.T, r io.Reader) string {
	t.Helper()
	zr, err := gzip.NewReader(r)
	require.NoError(t, err)
	defer zr.Close()
	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	return string(out)
}

func TestGZip_Response(t *testing.T) {
	tests := []struct {
		name           string
		acceptEncoding string
		wantGzip       bool
	}{
		{name: "gzip accepted", acceptEncoding: "gzip", wantGzip: true},
		{name: "gzip among several", acceptEncoding: "deflate, gzip, br", wantGzip: true},
		{name: "gzip with quality", acceptEncoding: "gzip;q=1.0, identity;q=0.5", wantGzip: true},
		{name: "no accept-encoding", acceptEncoding: "", wantGzip: false},
		{name: "other encoding only", acceptEncoding: "br", wantGzip: false},
	}

	const payload = `{"email":"bob@me.com","message":"logged in"}`

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(payload))
			})

			req := httptest.NewRequest(http.MethodPost, "/users", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			rr := httptest.NewRecorder()
			withGZip(next).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusCreated, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			if tt.wantGzip {
				assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
				assert.Equal(t, "Accept-Encoding", rr.Header().Get("Vary"))
				assert.Equal(t, payload, gunzip(t, rr.Body))
			} else {
				assert.Empty(t, rr.Header().Get("Content-Encoding"))
				assert.Equal(t, payload, rr.Body.String())
			}
		})
	}
}

func TestGZip_BodilessResponseIsNotEncoded(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    int
	}{
		{
			name:    "bare status",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusUnauthorized) },
			want:    http.StatusUnauthorized,
		},
		{
			name:    "redirect",
			handler: func(w http.ResponseWriter, r *http.Request) { http.Redirect(w, r, "/", http.StatusFound) },
			want:    http.StatusFound,
		},
		{
			name:    "nothing written",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			want:    http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/sessions", nil)
			req.Header.Set("Accept-Encoding", "gzip")
			rr := httptest.NewRecorder()

			withGZip(tt.handler).ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Code)
			assert.Empty(t, rr.Header().Get("Content-Encoding"))
			assert.Zero(t, rr.Body.Len())
		})
	}
}

func TestGZip_RequestBody(t *testing.T) {
	tests := []struct {
		name            string
		contentEncoding string
		body            func(t *testing.T) io.Reader
		wantStatus      int
		wantBody        string
	}{
		{
			name:            "gzipped form is inflated",
			contentEncoding: "gzip",
			body:            func(t *testing.T) io.Reader { return gzipBytes(t, "email=bob%40me.com") },
			wantStatus:      http.StatusOK,
			wantBody:        "email=bob%40me.com",
		},
		{
			name:            "gzip among several encodings",
			contentEncoding: "gzip, deflate",
			body:            func(t *testing.T) io.Reader { return gzipBytes(t, "a=1") },
			wantStatus:      http.StatusOK,
			wantBody:        "a=1",
		},
		{
			name:            "plain body passes through",
			contentEncoding: "",
			body:            func(t *testing.T) io.Reader { return strings.NewReader("a=1") },
			wantStatus:      http.StatusOK,
			wantBody:        "a=1",
		},
		{
			name:            "corrupt gzip body",
			contentEncoding: "gzip",
			body:            func(t *testing.T) io.Reader { return strings.NewReader("not gzip") },
			wantStatus:      http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Empty(t, r.Header.Get("Content-Encoding"))
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				_, _ = w.Write(body)
			})

			req := httptest.NewRequest(http.MethodPost, "/sessions", tt.body(t))
			if tt.contentEncoding != "" {
				req.Header.Set("Content-Encoding", tt.contentEncoding)
			}
			rr := httptest.NewRecorder()
			withGZip(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rr.Body.String())
			}
		})
	}
}

func TestGZip_FormBodyReachesParser(t *testing.T) {
	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, parseForm(r))
		got = r.PostFormValue("email")
	})

	req := httptest.NewRequest(http.MethodPost, "/users", gzipBytes(t, "email=bob%40me.com&password=pwd"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Content-Encoding", "gzip")
	withGZip(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "bob@me.com", got)
}

func TestGZip_ConcurrentRequests(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("Bienvenue ", 100)))
	})
	handler := withGZip(next)

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Accept-Encoding", "gzip")
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			zr, err := gzip.NewReader(rr.Body)
			if !assert.NoError(t, err) {
				return
			}
			out, err := io.ReadAll(zr)
			assert.NoError(t, err)
			assert.Equal(t, strings.Repeat("Bienvenue ", 100), string(out))
		}()
	}
	wg.Wait()
}

func TestWrappedReadCloser_Close(t *testing.T) {
	closed := false
	wrapped := &wrappedReadCloser{Reader: strings.NewReader("x"), OnClose: func() { closed = true }}

	assert.NoError(t, wrapped.Close())
	assert.True(t, closed)

	assert.NoError(t, (&wrappedReadCloser{Reader: strings.NewReader("x")}).Close())
}
