package service

import (
	"testing"

	"github.com/dastanaron/bookmark-organizer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bm(title, url string) models.Bookmark {
	return models.Bookmark{Title: title, URL: url}
}

func TestDuplicateService_SameURL(t *testing.T) {
	groups := NewDuplicateService(false).Find([]models.Bookmark{
		bm("A", "http://a.com/x"),
		bm("B", "http://a.com/x"),
	})

	require.Len(t, groups, 1)
	assert.Equal(t, models.DuplicateGroup{
		Type:   models.DuplicateURL,
		URL:    "http://a.com/x",
		Count:  2,
		Titles: []string{"A", "B"},
	}, groups[0])
}

func TestDuplicateService_URLGroupEmittedOncePerURL(t *testing.T) {
	groups := NewDuplicateService(false).Find([]models.Bookmark{
		bm("A", "http://a.com"),
		bm("B", "http://b.com"),
		bm("C", "http://a.com"),
		bm("D", "http://b.com"),
		bm("E", "http://a.com"),
		bm("F", "http://unique.com"),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "http://a.com", groups[0].URL)
	assert.Equal(t, 3, groups[0].Count)
	assert.Equal(t, []string{"A", "C", "E"}, groups[0].Titles)
	assert.Equal(t, "http://b.com", groups[1].URL)
	assert.Equal(t, []string{"B", "D"}, groups[1].Titles)

	for _, g := range groups {
		assert.NotEqual(t, "http://unique.com", g.URL)
	}
}

func TestDuplicateService_SameTitleDifferentURLs(t *testing.T) {
	groups := NewDuplicateService(false).Find([]models.Bookmark{
		bm("  My Site ", "http://one.com"),
		bm("my site", "http://two.com"),
	})

	// one entry per member bookmark
	require.Len(t, groups, 2)
	assert.Equal(t, models.DuplicateGroup{
		Type:  models.DuplicateTitle,
		Title: "  My Site ",
		URLs:  []string{"http://one.com", "http://two.com"},
		Count: 2,
	}, groups[0])
	assert.Equal(t, "my site", groups[1].Title)
	assert.Equal(t, []string{"http://one.com", "http://two.com"}, groups[1].URLs)
}

func TestDuplicateService_CollapseTitleGroups(t *testing.T) {
	input := []models.Bookmark{
		bm("Docs", "http://one.com"),
		bm("docs", "http://two.com"),
		bm("DOCS", "http://three.com"),
	}

	assert.Len(t, NewDuplicateService(false).Find(input), 3)

	groups := NewDuplicateService(true).Find(input)
	require.Len(t, groups, 1)
	assert.Equal(t, "Docs", groups[0].Title)
	assert.Equal(t, 3, groups[0].Count)
}

func TestDuplicateService_DuplicateURLNeverReportedAsTitleDuplicate(t *testing.T) {
	groups := NewDuplicateService(false).Find([]models.Bookmark{
		bm("Same", "http://a.com"),
		bm("Same", "http://a.com"),
		bm("Same", "http://b.com"),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, models.DuplicateURL, groups[0].Type)
	assert.Equal(t, "http://a.com", groups[0].URL)

	// only the bookmark with the unique URL yields a title entry
	assert.Equal(t, models.DuplicateTitle, groups[1].Type)
	assert.Equal(t, []string{"http://a.com", "http://a.com", "http://b.com"}, groups[1].URLs)
	assert.Equal(t, 3, groups[1].Count)
}

func TestDuplicateService_SameTitleSameURLIsOnlyURLDuplicate(t *testing.T) {
	groups := NewDuplicateService(false).Find([]models.Bookmark{
		bm("Go", "https://go.dev"),
		bm("go", "https://go.dev"),
	})

	require.Len(t, groups, 1)
	assert.Equal(t, models.DuplicateURL, groups[0].Type)
}

func TestDuplicateService_NoDuplicates(t *testing.T) {
	groups := NewDuplicateService(false).Find([]models.Bookmark{
		bm("A", "http://a.com"),
		bm("B", "http://b.com"),
	})
	assert.NotNil(t, groups)
	assert.Empty(t, groups)

	assert.Empty(t, NewDuplicateService(false).Find(nil))
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "my site", NormalizeTitle("  My Site \t"))
	assert.Equal(t, "", NormalizeTitle("   "))
}
