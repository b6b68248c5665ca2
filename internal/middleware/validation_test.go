package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mathieu-neron/songrec/internal/model"
)

func TestIsYoutubeLink(t *testing.T) {
	tests := []struct {
		link string
		want bool
	}{
		{"https://www.youtube.com/watch?v=chwyjJbcs1Y", true},
		{"http://youtube.com/watch?v=abc", true},
		{"https://youtu.be/chwyjJbcs1Y", true},
		{"youtu.be/chwyjJbcs1Y", true},
		{"https://m.youtube.com/watch?v=abc", true},
		{"  https://youtu.be/abc  ", false},
		{"https://youtube.com/", false},
		{"https://vimeo.com/123", false},
		{"https://youtube.com.evil.example/watch", false},
		{"not a link", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			assert.Equal(t, tt.want, IsYoutubeLink(tt.link))
		})
	}
}

func TestValidateRecommendation(t *testing.T) {
	tests := []struct {
		name    string
		req     model.RecommendationRequest
		wantMsg string
	}{
		{
			name: "valid",
			req:  model.RecommendationRequest{Name: "Falamansa - Xote dos Milagres", YoutubeLink: "https://www.youtube.com/watch?v=chwyjJbcs1Y"},
		},
		{
			name:    "missing name",
			req:     model.RecommendationRequest{YoutubeLink: "https://youtu.be/a"},
			wantMsg: "name is required",
		},
		{
			name:    "blank name",
			req:     model.RecommendationRequest{Name: "   ", YoutubeLink: "https://youtu.be/a"},
			wantMsg: "name must not begin or end with whitespace",
		},
		{
			name:    "padded name",
			req:     model.RecommendationRequest{Name: " Song", YoutubeLink: "https://youtu.be/a"},
			wantMsg: "name must not begin or end with whitespace",
		},
		{
			name:    "padded link",
			req:     model.RecommendationRequest{Name: "Song", YoutubeLink: "https://youtu.be/a\n"},
			wantMsg: "youtubeLink must not begin or end with whitespace",
		},
		{
			name: "inner spaces kept",
			req:  model.RecommendationRequest{Name: "Falamansa  -  Xote", YoutubeLink: "https://youtu.be/a"},
		},
		{
			name:    "missing link",
			req:     model.RecommendationRequest{Name: "song"},
			wantMsg: "youtubeLink is required",
		},
		{
			name:    "foreign link",
			req:     model.RecommendationRequest{Name: "song", YoutubeLink: "https://vimeo.com/1"},
			wantMsg: "youtubeLink must be a youtube.com or youtu.be link",
		},
		{
			name:    "name too long",
			req:     model.RecommendationRequest{Name: strings.Repeat("a", MaxNameLen+1), YoutubeLink: "https://youtu.be/a"},
			wantMsg: "name must be at most 200 characters",
		},
		{
			name: "multibyte name at limit",
			req:  model.RecommendationRequest{Name: strings.Repeat("ã", MaxNameLen), YoutubeLink: "https://youtu.be/a"},
		},
		{
			name:    "multibyte name too long",
			req:     model.RecommendationRequest{Name: strings.Repeat("ã", MaxNameLen+1), YoutubeLink: "https://youtu.be/a"},
			wantMsg: "name must be at most 200 characters",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, ValidateRecommendation(tt.req))
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"1.5", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, msg := ParseID(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, msg != "")
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"5", 5, false},
		{"0", 0, false},
		{"-2", -2, false},
		{"five", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, msg := ParseAmount(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, msg != "")
		})
	}
}

func TestSanitizePath(t *testing.T) {
	tests := map[string]string{
		"/recommendations":           "/recommendations",
		"/recommendations/12":        "/recommendations/:id",
		"/recommendations/12/upvote": "/recommendations/:id/upvote",
		"/recommendations/random":    "/recommendations/random",
		"/recommendations/top/5":     "/recommendations/top/:amount",
		"/recommendations/reset":     "/recommendations/reset",
		"/health/ready":              "/health/ready",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizePath(in), in)
	}
}

func TestParseOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, parseOrigins(""))
	assert.Equal(t, []string{"*"}, parseOrigins("*"))
	assert.Equal(t, []string{"*"}, parseOrigins(" , "))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, parseOrigins("https://a.example, https://b.example"))
}
