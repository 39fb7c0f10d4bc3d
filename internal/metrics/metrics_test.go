package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ziadkadry99/booknav/internal/logging"
	"github.com/ziadkadry99/booknav/internal/sidebar"
)

func TestMountedAndEvents(t *testing.T) {
	m := New()

	markup := `<ol class="chapter"><li class="chapter-item "><a href="a.html">A</a></li></ol>`
	c := sidebar.New(markup, sidebar.Config{}, nil, logging.Discard())
	hit, _ := c.Mount(context.Background(), "http://book.test/a.html")
	miss, _ := c.Mount(context.Background(), "http://book.test/b.html")
	m.Mounted(hit)
	m.Mounted(miss)
	m.Event("click")
	m.Event("toggle")
	m.Event("toggle")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	wants := []string{
		`booknav_sidebar_mounts_total{active="true"} 1`,
		`booknav_sidebar_mounts_total{active="false"} 1`,
		`booknav_scroll_restores_total{mode="center"} 1`,
		`booknav_scroll_restores_total{mode="none"} 1`,
		`booknav_sidebar_events_total{type="click"} 1`,
		`booknav_sidebar_events_total{type="toggle"} 2`,
	}
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("metrics output missing %s", w)
		}
	}
}
