package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhaveshbalendra/Inagiffy/internal/types"
)

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		want    string
		wantErr bool
	}{
		{
			name: "og title preferred",
			html: `<html><head><meta property="og:title" content="OG Title"><title>Doc Title</title></head></html>`,
			want: "OG Title",
		},
		{
			name: "title fallback",
			html: `<html><head><title>  Doc Title </title></head></html>`,
			want: "Doc Title",
		},
		{
			name:    "no title",
			html:    `<html><body><p>nothing</p></body></html>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractTitle(tt.html)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetchable(t *testing.T) {
	assert.True(t, fetchable("https://example.com/article"))
	assert.True(t, fetchable("http://example.com"))
	assert.False(t, fetchable("ftp://example.com"))
	assert.False(t, fetchable("not a url"))
	assert.False(t, fetchable(""))
}

func TestFillTitles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Fetched Title</title></head></html>`))
	}))
	defer srv.Close()

	m := &types.LearningMap{
		Topic: "Go",
		Level: types.LevelBeginner,
		Branches: []types.MainBranch{
			{
				Title: "Basics",
				SubTopics: []types.SubTopic{
					{
						Title:       "Syntax",
						Description: "d",
						Resources: []types.Resource{
							{Type: types.ResourceArticle, Title: "", URL: srv.URL},
							{Type: types.ResourceArticle, Title: "Keep Me", URL: srv.URL},
							{Type: types.ResourceBook, Title: "", URL: "not a url"},
						},
					},
				},
			},
		},
	}

	New(nil).FillTitles(context.Background(), m)

	resources := m.Branches[0].SubTopics[0].Resources
	assert.Equal(t, "Fetched Title", resources[0].Title)
	assert.Equal(t, "Keep Me", resources[1].Title)
	assert.Equal(t, "", resources[2].Title)
}

func TestFillTitlesRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`<html><head><title>Second Try</title></head></html>`))
	}))
	defer srv.Close()

	m := &types.LearningMap{
		Topic: "Go",
		Level: types.LevelBeginner,
		Branches: []types.MainBranch{
			{
				Title: "Basics",
				SubTopics: []types.SubTopic{
					{
						Title:       "Syntax",
						Description: "d",
						Resources:   []types.Resource{{Type: types.ResourceArticle, URL: srv.URL}},
					},
				},
			},
		},
	}

	New(nil).FillTitles(context.Background(), m)

	assert.Equal(t, "Second Try", m.Branches[0].SubTopics[0].Resources[0].Title)
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}
