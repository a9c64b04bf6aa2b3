package paging

import (
	"net/http/httptest"
	"testing"
)

func TestFromRequest(t *testing.T) {
	cases := []struct {
		name       string
		target     string
		wantNumber int
		wantSize   int
	}{
		{"defaults", "/posts", 1, DefaultSize},
		{"explicit", "/posts?page=3&per_page=10", 3, 10},
		{"clamped", "/posts?per_page=10000", 1, MaxSize},
		{"garbage", "/posts?page=zero&per_page=-5", 1, DefaultSize},
		{"zero page", "/posts?page=0", 1, DefaultSize},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := FromRequest(httptest.NewRequest("GET", tc.target, nil))
			if p.Number != tc.wantNumber || p.Size != tc.wantSize {
				t.Errorf("got page %d size %d, want page %d size %d",
					p.Number, p.Size, tc.wantNumber, tc.wantSize)
			}
		})
	}
}

func TestSkip(t *testing.T) {
	p := Page{Number: 3, Size: 20}
	if p.Skip() != 40 {
		t.Errorf("Skip() = %d, want 40", p.Skip())
	}
	if p.Limit() != 20 {
		t.Errorf("Limit() = %d, want 20", p.Limit())
	}
}
