package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Grabber66/sis-handball/internal/league"
)

const standingsPage = `<html><body>
<div class="table-responsive"><table>
<thead><tr><th>Nr</th><th>Mannschaft</th><th>Spiele</th><th>S</th><th>U</th><th>N</th><th>Tore</th><th>D</th><th>Punkte</th></tr></thead>
<tbody>
<tr><td></td><td>1</td><td>TV Musterstadt</td><td>10/22</td><td>8</td><td>1</td><td>1</td><td>280:240</td><td>40</td><td>17:3</td></tr>
<tr><td></td><td>2</td><td>HSG Beispiel</td><td>10/22</td><td>7</td><td>1</td><td>2</td><td>270:250</td><td>20</td><td>15:5</td></tr>
</tbody>
</table></div>
</body></html>`

func TestFetch(t *testing.T) {
	tests := []struct {
		name       string
		body       []byte
		statusCode int
		wantErr    error
		wantRows   int
	}{
		{
			name:       "standings page",
			body:       []byte(standingsPage),
			statusCode: http.StatusOK,
			wantRows:   2,
		},
		{
			name:       "HTTP error",
			body:       []byte("not found"),
			statusCode: http.StatusNotFound,
			wantErr:    ErrUnexpectedStatus,
		},
		{
			name:       "empty body",
			statusCode: http.StatusOK,
			wantErr:    ErrEmptyBody,
		},
		{
			name:       "page without result table",
			body:       []byte("<html><body><p>Wartungsarbeiten</p></body></html>"),
			statusCode: http.StatusOK,
			wantErr:    ErrNoMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if ua := r.Header.Get("User-Agent"); ua != UserAgent {
					t.Errorf("User-Agent = %q, want %q", ua, UserAgent)
				}
				w.WriteHeader(tt.statusCode)
				w.Write(tt.body)
			}))
			defer server.Close()

			rows, err := New().Fetch(context.Background(), server.URL, league.KindStandings)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Fetch() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch() unexpected error: %v", err)
			}
			if len(rows) != tt.wantRows {
				t.Errorf("Fetch() returned %d rows, want %d", len(rows), tt.wantRows)
			}
		})
	}
}

func TestFetchErrorCarriesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := New().FetchDocument(context.Background(), server.URL)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want *FetchError", err)
	}
	if fetchErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want %d", fetchErr.StatusCode, http.StatusBadGateway)
	}
	if fetchErr.URL != server.URL {
		t.Errorf("URL = %q, want %q", fetchErr.URL, server.URL)
	}
}

func TestFetchDecodesLegacyCharset(t *testing.T) {
	// "Würzburger Kickers" with ü as the single byte 0xFC.
	page := []byte(`<html><body><div class="table-responsive"><table>` +
		`<thead><tr><th>x</th></tr></thead><tbody>` +
		"<tr><td></td><td>1</td><td>W\xfcrzburger Kickers</td><td>3/22</td><td>3</td></tr>" +
		`</tbody></table></div></body></html>`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(page)
	}))
	defer server.Close()

	rows, err := New().Fetch(context.Background(), server.URL, league.KindStandings)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if got := rows[0].At(league.StandingsTeam); got != "Würzburger Kickers" {
		t.Errorf("team = %q, want %q", got, "Würzburger Kickers")
	}
}

func TestFetchHonoursTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	s, err := NewWithOptions(Options{Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.FetchDocument(context.Background(), server.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want *FetchError", err)
	}
}

func TestFetchRetriesTransientFailures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		retries   int
		wantErr   error
		wantCalls int32
	}{
		{"recovers after 503", http.StatusServiceUnavailable, 2, nil, 2},
		{"gives up after retries", http.StatusServiceUnavailable, 1, ErrUnexpectedStatus, 2},
		{"404 is not retried", http.StatusNotFound, 3, ErrUnexpectedStatus, 1},
		{"retries disabled", http.StatusServiceUnavailable, 0, ErrUnexpectedStatus, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := calls.Add(1)
				if tt.wantErr == nil && n > 1 {
					w.Write([]byte(standingsPage))
					return
				}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			s, err := NewWithOptions(Options{Retries: tt.retries, RetryWait: time.Millisecond})
			if err != nil {
				t.Fatal(err)
			}

			rows, err := s.Fetch(context.Background(), server.URL, league.KindStandings)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Fetch() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Fetch() unexpected error: %v", err)
			} else if len(rows) != 2 {
				t.Errorf("Fetch() returned %d rows, want 2", len(rows))
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("upstream called %d times, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestLookupCharset(t *testing.T) {
	for _, name := range []string{"", "windows-1252", "iso-8859-1", "utf-8"} {
		if _, err := LookupCharset(name); err != nil {
			t.Errorf("LookupCharset(%q) error: %v", name, err)
		}
	}
	if _, err := LookupCharset("klingon"); err == nil {
		t.Error("LookupCharset(klingon) expected error")
	}
}
