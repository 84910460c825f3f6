package service

import (
	"strings"

	"github.com/dastanaron/bookmark-organizer/internal/models"
)

// DuplicateService provides duplicate detection for bookmarks
type DuplicateService struct {
	collapseTitles bool
}

// NewDuplicateService creates a new duplicate service.
// With collapseTitles set, a title-duplicate group is emitted once per normalized
// title instead of once per member bookmark.
func NewDuplicateService(collapseTitles bool) *DuplicateService {
	return &DuplicateService{collapseTitles: collapseTitles}
}

// NormalizeTitle is the key titles are compared by
func NormalizeTitle(title string) string {
	return strings.TrimSpace(strings.ToLower(title))
}

// Find returns URL duplicates and title duplicates in first-encounter order.
//
// A URL shared by several bookmarks is reported once. A bookmark whose URL is
// not shared is reported as a title duplicate when its normalized title is used
// by bookmarks with more than one distinct URL; this happens once per such
// bookmark unless titles are collapsed.
func (s *DuplicateService) Find(bookmarks []models.Bookmark) []models.DuplicateGroup {
	urlCounts := make(map[string]int)
	titleGroups := make(map[string][]models.Bookmark)
	for _, b := range bookmarks {
		urlCounts[b.URL]++
		key := NormalizeTitle(b.Title)
		titleGroups[key] = append(titleGroups[key], b)
	}

	duplicates := make([]models.DuplicateGroup, 0)
	seenURLs := make(map[string]bool)
	seenTitles := make(map[string]bool)

	for _, b := range bookmarks {
		if urlCounts[b.URL] > 1 {
			if !seenURLs[b.URL] {
				duplicates = append(duplicates, urlGroup(b.URL, bookmarks))
				seenURLs[b.URL] = true
			}
			continue
		}

		key := NormalizeTitle(b.Title)
		similar := titleGroups[key]
		if len(similar) < 2 || distinctURLs(similar) < 2 {
			continue
		}
		if s.collapseTitles {
			if seenTitles[key] {
				continue
			}
			seenTitles[key] = true
		}
		duplicates = append(duplicates, titleGroup(b.Title, similar))
	}

	return duplicates
}

func urlGroup(url string, bookmarks []models.Bookmark) models.DuplicateGroup {
	var titles []string
	for _, b := range bookmarks {
		if b.URL == url {
			titles = append(titles, b.Title)
		}
	}
	return models.DuplicateGroup{
		Type:   models.DuplicateURL,
		URL:    url,
		Count:  len(titles),
		Titles: titles,
	}
}

func titleGroup(title string, similar []models.Bookmark) models.DuplicateGroup {
	urls := make([]string, 0, len(similar))
	for _, b := range similar {
		urls = append(urls, b.URL)
	}
	return models.DuplicateGroup{
		Type:  models.DuplicateTitle,
		Title: title,
		URLs:  urls,
		Count: len(similar),
	}
}

func distinctURLs(bookmarks []models.Bookmark) int {
	seen := make(map[string]struct{}, len(bookmarks))
	for _, b := range bookmarks {
		seen[b.URL] = struct{}{}
	}
	return len(seen)
}
