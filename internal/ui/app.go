package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/dastanaron/bookmark-organizer/internal/commands"
	"github.com/dastanaron/bookmark-organizer/internal/models"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	ModeNormal = 1
	ModeSearch = 2
)

// Category is one of the result collections shown in the left pane
type Category int

const (
	CategoryDead Category = iota
	CategoryWorking
	CategoryDuplicates
)

func (c Category) String() string {
	switch c {
	case CategoryDead:
		return "Dead links"
	case CategoryWorking:
		return "Working links"
	case CategoryDuplicates:
		return "Duplicates"
	default:
		return "Unknown"
	}
}

var categories = []Category{CategoryDead, CategoryWorking, CategoryDuplicates}

// Entry is a single row of the items list
type Entry struct {
	Title     string
	URL       string // opened with Enter; empty when nothing can be opened
	Secondary string
	Details   string
}

// App represents the results browser
type App struct {
	app               *tview.Application
	categoryList      *tview.List
	list              *tview.List
	detail            *tview.TextView
	search            *tview.InputField
	pages             *tview.Pages
	status            *tview.TextView
	mode              uint8
	analysis          *models.Analysis
	selected          Category
	allItems          []Entry
	items             []Entry
	currentItem       *Entry
	focusOnCategories bool
	openURL           func(string)
}

// NewApp creates a new results browser for a finished analysis
func NewApp(analysis *models.Analysis) *App {
	return &App{
		app:          tview.NewApplication(),
		categoryList: tview.NewList().ShowSecondaryText(false),
		list:         tview.NewList(),
		detail:       tview.NewTextView().SetDynamicColors(true).SetWrap(true),
		search:       tview.NewInputField().SetLabel("Search: "),
		pages:        tview.NewPages(),
		mode:         ModeNormal,
		status:       tview.NewTextView().SetDynamicColors(true),
		analysis:     analysis,
		selected:     CategoryDead,
		openURL:      openURL,
	}
}

// Run starts the application
func (a *App) Run() error {
	a.list.SetBorder(true)
	a.detail.SetBorder(true).SetTitle("Details")
	a.categoryList.SetBorder(true).SetTitle("Results")

	cols := tview.NewFlex().
		AddItem(a.categoryList, 0, 1, false).
		AddItem(a.list, 0, 3, true).
		AddItem(a.detail, 0, 2, false)

	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.search, 1, 0, false).
		AddItem(cols, 0, 1, true).
		AddItem(a.status, 1, 0, false)

	a.pages.AddPage("main", main, true, true)

	a.fillCategoryList()
	a.loadCategory(CategoryDead)

	a.search.SetChangedFunc(a.onSearchChange)
	a.search.SetDoneFunc(a.onSearchDone)
	a.list.SetChangedFunc(a.onSelect)

	a.app.SetRoot(a.pages, true)
	a.app.SetInputCapture(a.globalInput)
	a.updateStatus()

	a.app.SetFocus(a.list)
	return a.app.Run()
}

func (a *App) updateStatus() {
	countText := fmt.Sprintf(" [::b]%d[::r] of %d", len(a.items), len(a.allItems))
	statusText := "[::b]Tab[::r] switch  [::b]/[::r] search  [::b]Enter[::r] open  [::b]q[::r] quit" + countText
	if a.focusOnCategories {
		statusText = "[::b]Tab[::r] switch  [::b]Enter[::r] select  [::b]q[::r] quit" + countText
	}
	a.status.SetText(statusText)
}

func (a *App) fillCategoryList() {
	a.categoryList.Clear()
	for _, c := range categories {
		a.categoryList.AddItem(fmt.Sprintf("%s (%d)", c, len(BuildEntries(a.analysis, c))), "", 0, nil)
	}
}

func (a *App) loadCategory(c Category) {
	a.selected = c
	a.allItems = BuildEntries(a.analysis, c)
	a.applyFilter(a.search.GetText())
	a.list.SetTitle(c.String())
}

func (a *App) applyFilter(text string) {
	a.items = FilterEntries(a.allItems, text)
	a.fillList()
}

func (a *App) fillList() {
	a.list.Clear()
	for i := range a.items {
		index := i
		item := a.items[i]
		a.list.AddItem(tview.Escape(item.Title), tview.Escape(item.Secondary), 0, func() {
			if index >= 0 && index < len(a.items) {
				a.currentItem = &a.items[index]
				a.showDetails()
			}
		})
	}

	if len(a.items) > 0 {
		a.currentItem = &a.items[0]
	} else {
		a.currentItem = nil
	}
	a.showDetails()
}

func (a *App) showDetails() {
	if a.currentItem == nil {
		a.detail.SetText("")
		return
	}
	a.detail.SetText(a.currentItem.Details)
}

func (a *App) setMode(m uint8) {
	a.mode = m
	switch m {
	case ModeSearch:
		a.app.SetFocus(a.search)
	case ModeNormal:
		if a.focusOnCategories {
			a.app.SetFocus(a.categoryList)
		} else {
			a.app.SetFocus(a.list)
		}
	}
}

func (a *App) toggleFocus() {
	a.focusOnCategories = !a.focusOnCategories
	if a.focusOnCategories {
		a.app.SetFocus(a.categoryList)
	} else {
		a.app.SetFocus(a.list)
	}
	a.updateStatus()
}

func (a *App) onSearchChange(text string) {
	a.applyFilter(text)
	a.updateStatus()
}

func (a *App) onSearchDone(key tcell.Key) {
	switch key {
	case tcell.KeyEnter:
		a.setMode(ModeNormal)
	case tcell.KeyEscape:
		a.search.SetText("")
		a.applyFilter("")
		a.updateStatus()
		a.setMode(ModeNormal)
	}
}

func (a *App) onSelect(index int, mainText, secondaryText string, shortcut rune) {
	if index >= 0 && index < len(a.items) {
		a.currentItem = &a.items[index]
		a.showDetails()
	}
}

func (a *App) globalInput(event *tcell.EventKey) *tcell.EventKey {
	if a.mode != ModeNormal {
		return event
	}

	if event.Key() == tcell.KeyTab {
		a.toggleFocus()
		return nil
	}

	if a.focusOnCategories {
		switch event.Key() {
		case tcell.KeyEnter:
			index := a.categoryList.GetCurrentItem()
			if index >= 0 && index < len(categories) {
				a.loadCategory(categories[index])
				a.focusOnCategories = false
				a.app.SetFocus(a.list)
				a.updateStatus()
			}
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q':
				a.app.Stop()
				return nil
			case '/':
				a.setMode(ModeSearch)
				return nil
			}
		}
		return event
	}

	switch event.Key() {
	case tcell.KeyEnter:
		a.openCurrent()
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'o':
			a.openCurrent()
			return nil
		case '/':
			a.setMode(ModeSearch)
			return nil
		case 'q':
			a.app.Stop()
			return nil
		}
	}
	return event
}

func (a *App) openCurrent() {
	if a.currentItem != nil && a.currentItem.URL != "" {
		a.openURL(a.currentItem.URL)
	}
}

// BuildEntries turns one result collection into list rows
func BuildEntries(analysis *models.Analysis, c Category) []Entry {
	var entries []Entry
	switch c {
	case CategoryDead:
		for _, r := range analysis.DeadLinks {
			entries = append(entries, probeEntry(r))
		}
	case CategoryWorking:
		for _, r := range analysis.WorkingLinks {
			entries = append(entries, probeEntry(r))
		}
	case CategoryDuplicates:
		for _, g := range analysis.Duplicates {
			entries = append(entries, duplicateEntry(g))
		}
	}
	return entries
}

func probeEntry(r models.ProbeResult) Entry {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[::b]Title:[::-]\n%s\n\n", tview.Escape(r.Title))
	fmt.Fprintf(&sb, "[::b]URL:[::-]\n%s\n\n", tview.Escape(r.URL))
	fmt.Fprintf(&sb, "[::b]Status:[::-]\n%s\n\n", r.Status)
	fmt.Fprintf(&sb, "[::b]Domain:[::-]\n%s", tview.Escape(r.Domain))
	if r.Error != "" {
		fmt.Fprintf(&sb, "\n\n[::b]Error:[::-]\n%s", tview.Escape(r.Error))
	}
	if r.Note != "" {
		fmt.Fprintf(&sb, "\n\n[::b]Note:[::-]\n%s", tview.Escape(r.Note))
	}

	return Entry{
		Title:     r.Title,
		URL:       r.URL,
		Secondary: fmt.Sprintf("%s  %s", r.Status, r.URL),
		Details:   sb.String(),
	}
}

func duplicateEntry(g models.DuplicateGroup) Entry {
	e := Entry{Secondary: commands.DuplicateDetails(g)}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[::b]Type:[::-]\n%s\n\n[::b]Count:[::-]\n%d\n\n", g.Type, g.Count)
	if g.Type == models.DuplicateURL {
		e.Title = g.URL
		e.URL = g.URL
		fmt.Fprintf(&sb, "[::b]URL:[::-]\n%s\n\n[::b]Titles:[::-]\n", tview.Escape(g.URL))
		for _, t := range g.Titles {
			fmt.Fprintf(&sb, "- %s\n", tview.Escape(t))
		}
	} else {
		e.Title = g.Title
		if len(g.URLs) > 0 {
			e.URL = g.URLs[0]
		}
		fmt.Fprintf(&sb, "[::b]Title:[::-]\n%s\n\n[::b]URLs:[::-]\n", tview.Escape(g.Title))
		for _, u := range g.URLs {
			fmt.Fprintf(&sb, "- %s\n", tview.Escape(u))
		}
	}
	e.Details = sb.String()
	return e
}

// FilterEntries keeps entries whose title, URL or secondary text contains the query, ignoring case
func FilterEntries(entries []Entry, query string) []Entry {
	if query == "" {
		return entries
	}

	q := strings.ToLower(query)
	var filtered []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Title), q) ||
			strings.Contains(strings.ToLower(e.URL), q) ||
			strings.Contains(strings.ToLower(e.Secondary), q) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func openURL(url string) {
	var cmd string
	var args []string
	switch runtime.GOOS {
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start"}
	case "darwin":
		cmd = "open"
	default:
		cmd = "xdg-open"
	}
	args = append(args, url)
	_ = exec.Command(cmd, args...).Start()
}
