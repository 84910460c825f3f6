package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/dastanaron/bookmark-organizer/internal/models"
	"github.com/rs/zerolog"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// ParseError is returned when a bookmarks file cannot be read or parsed
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse bookmarks: %v", e.Err)
	}
	return fmt.Sprintf("parse bookmarks file %q: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parser parses HTML bookmark files
type Parser struct {
	logger zerolog.Logger
}

// NewParser creates a new parser
func NewParser(logger zerolog.Logger) *Parser {
	return &Parser{logger: logger.With().Str("component", "parser").Logger()}
}

// ParseFile opens and parses a bookmarks export file
func (p *Parser) ParseFile(path string) ([]models.Bookmark, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer file.Close()

	bookmarks, err := p.ParseBookmarksHTML(file)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return bookmarks, nil
}

// ParseBookmarksHTML parses an HTML bookmark file.
// Every <a> with a non-empty href and non-empty visible text becomes a bookmark,
// in document order.
func (p *Parser) ParseBookmarksHTML(r io.Reader) ([]models.Bookmark, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	if len(data) == 0 {
		return []models.Bookmark{}, nil
	}

	_, name, _ := charset.DetermineEncoding(data, "text/html")
	if name == "utf-8" && !utf8.Valid(data) {
		return nil, &ParseError{Err: errors.New("content is not valid UTF-8")}
	}
	utf8Reader, err := charset.NewReader(bytes.NewReader(data), "text/html")
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("detect charset: %w", err)}
	}

	root, err := html.Parse(utf8Reader)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	doc := goquery.NewDocumentFromNode(root)

	var bookmarks []models.Bookmark
	skipped := 0
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		title := visibleText(s.Nodes[0])
		if href == "" || title == "" {
			skipped++
			return
		}

		bookmarks = append(bookmarks, models.Bookmark{
			Title:  title,
			URL:    href,
			Domain: Domain(href),
			Folder: folderPath(s),
		})
	})

	p.logger.Debug().Int("bookmarks", len(bookmarks)).Int("skipped", skipped).Msg("Parsed bookmarks")
	return bookmarks, nil
}

// Domain returns the authority part of a URL (userinfo, host and port as written),
// or an empty string when the URL is malformed or has no authority.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if u.User != nil {
		return u.User.String() + "@" + u.Host
	}
	return u.Host
}

// visibleText joins all descendant text nodes, each trimmed of surrounding whitespace
func visibleText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// folderPath resolves the <H3> header of every enclosing <DL>, outermost first
func folderPath(s *goquery.Selection) []string {
	var path []string
	s.ParentsFiltered("dl").Each(func(_ int, dl *goquery.Selection) {
		header := folderHeader(dl)
		if header.Length() == 0 {
			return
		}
		if name := strings.TrimSpace(header.Text()); name != "" {
			path = append(path, name)
		}
	})

	// parents come nearest first
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// folderHeader finds the <H3> naming a <DL>. Usually it is a previous sibling
// inside the same <DT>. A folder description (<DD>) closes that <DT>, so the
// <DL> ends up in the <DD> and the header sits in the <DT> just before it.
func folderHeader(dl *goquery.Selection) *goquery.Selection {
	header := dl.PrevAllFiltered("h3").First()
	if header.Length() > 0 {
		return header
	}
	if dd := dl.Parent(); dd.Is("dd") {
		return dd.PrevAllFiltered("dt").First().ChildrenFiltered("h3").First()
	}
	return header
}
