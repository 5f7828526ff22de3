package response

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name          string
		total         int64
		page, size    int
		wantTotalPage int
	}{
		{"empty", 0, 1, 20, 0},
		{"exact", 40, 1, 20, 2},
		{"remainder", 41, 3, 20, 3},
		{"single", 5, 1, 20, 1},
		{"zero page size", 7, 1, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, tt.page, tt.size)
			if p.TotalPages != tt.wantTotalPage {
				t.Errorf("expected %d pages, got %d", tt.wantTotalPage, p.TotalPages)
			}
			if p.Total != tt.total || p.Page != tt.page {
				t.Errorf("unexpected pagination %+v", p)
			}
		})
	}
}

func TestAttachment(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Attachment(c, "Panel Roster é.xlsx", "application/octet-stream", []byte("data"))

	if w.Code != http.StatusOK || w.Body.String() != "data" {
		t.Fatalf("unexpected response %d %q", w.Code, w.Body.String())
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.Contains(cd, `filename="Panel Roster _.xlsx"`) {
		t.Errorf("expected ASCII fallback filename, got %s", cd)
	}
	if !strings.Contains(cd, "filename*=UTF-8''Panel%20Roster%20%C3%A9.xlsx") {
		t.Errorf("expected percent-encoded filename*, got %s", cd)
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Error("downloads must not be cached")
	}
}

func TestTooManyRequests(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	TooManyRequests(c, 1500*time.Millisecond)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "2" {
		t.Errorf("expected Retry-After 2, got %s", got)
	}
	if !strings.Contains(w.Body.String(), `"code":10004`) {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}
