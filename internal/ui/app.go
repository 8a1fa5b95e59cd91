package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Ryutta/qiita-list/internal/models"
	"github.com/Ryutta/qiita-list/internal/service"
)

const (
	ModeNormal = 1
	ModeSearch = 2
	ModeModal  = 3
)

// App is the interactive browser over the merged collection: filter with
// a search line, mark items, remove the marked ones.
type App struct {
	app        *tview.Application
	list       *tview.List
	detail     *tview.TextView
	search     *tview.InputField
	status     *tview.TextView
	pages      *tview.Pages
	mode       uint8
	svc        *service.CollectionService
	collection *models.Collection
	items      []models.Item
	marked     map[string]bool
	lastReport *models.Report
}

// NewApp creates a new application instance over an already fetched
// collection
func NewApp(svc *service.CollectionService, collection *models.Collection) *App {
	return &App{
		app:        tview.NewApplication(),
		list:       tview.NewList(),
		detail:     tview.NewTextView().SetDynamicColors(true).SetWrap(true),
		search:     tview.NewInputField().SetLabel("Search: "),
		status:     tview.NewTextView().SetDynamicColors(true),
		pages:      tview.NewPages(),
		mode:       ModeNormal,
		svc:        svc,
		collection: collection,
		marked:     make(map[string]bool),
	}
}

// Run starts the application
func (a *App) Run() error {
	a.list.SetBorder(true).SetTitle("Items")
	a.detail.SetBorder(true).SetTitle("Details")

	cols := tview.NewFlex().
		AddItem(a.list, 0, 3, true).
		AddItem(a.detail, 0, 2, false)

	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.search, 1, 0, false).
		AddItem(cols, 0, 1, true).
		AddItem(a.status, 1, 0, false)

	a.pages.AddPage("main", main, true, true)

	a.search.SetChangedFunc(a.onSearchChange)
	a.search.SetDoneFunc(a.onSearchDone)
	a.list.SetChangedFunc(a.onSelect)

	a.reload()

	a.app.SetRoot(a.pages, true)
	a.app.SetInputCapture(a.globalInput)
	a.updateStatus()
	a.app.SetFocus(a.list)
	return a.app.Run()
}

func (a *App) globalInput(event *tcell.EventKey) *tcell.EventKey {
	if a.mode != ModeNormal {
		return event
	}

	switch event.Key() {
	case tcell.KeyCtrlC:
		a.app.Stop()
		return nil
	}

	switch event.Rune() {
	case 'q':
		a.app.Stop()
		return nil
	case '/':
		a.mode = ModeSearch
		a.app.SetFocus(a.search)
		return nil
	case ' ':
		a.toggleMark()
		return nil
	case 'd':
		a.confirmRemove()
		return nil
	}
	return event
}

func (a *App) onSearchChange(text string) {
	a.applyFilter(text)
	a.updateStatus()
}

func (a *App) onSearchDone(key tcell.Key) {
	a.mode = ModeNormal
	if key == tcell.KeyEscape {
		a.search.SetText("")
		a.applyFilter("")
	}
	a.app.SetFocus(a.list)
	a.updateStatus()
}

func (a *App) onSelect(index int, mainText, secondaryText string, shortcut rune) {
	if index >= 0 && index < len(a.items) {
		a.showDetails(&a.items[index])
	}
}

// reload re-derives the visible items from the collection, keeping the
// current filter, and drops marks on items that left the displayable set.
func (a *App) reload() {
	a.applyFilter(a.search.GetText())
	for id := range a.marked {
		if it, ok := a.collection.Get(id); !ok || !it.Active() {
			delete(a.marked, id)
		}
	}
	a.updateStatus()
}

func (a *App) applyFilter(text string) {
	a.items = a.collection.Search(strings.TrimSpace(text))
	a.fillList()
}

func (a *App) fillList() {
	a.list.Clear()
	for i := range a.items {
		item := a.items[i]
		a.list.AddItem(a.mainText(item), item.URL, 0, nil)
	}
	if len(a.items) > 0 {
		a.showDetails(&a.items[0])
	} else {
		a.showDetails(nil)
	}
}

func (a *App) mainText(item models.Item) string {
	mark := "  "
	if a.marked[item.ID] {
		mark = "[red]✗[-] "
	}
	return mark + item.Title + " " + flagBadge(item)
}

func flagBadge(item models.Item) string {
	switch {
	case item.Stocked && item.Liked:
		return "[green][S+L][-]"
	case item.Stocked:
		return "[green][S][-]"
	case item.Liked:
		return "[yellow][L][-]"
	}
	return ""
}

func (a *App) showDetails(item *models.Item) {
	a.detail.Clear()
	if item == nil {
		fmt.Fprint(a.detail, "[gray]no items[-]")
		return
	}
	fmt.Fprintf(a.detail, "[::b]%s[::-]\n\n", tview.Escape(item.Title))
	fmt.Fprintf(a.detail, "[yellow]URL:[-] %s\n", item.URL)
	fmt.Fprintf(a.detail, "[yellow]Author:[-] %s\n", item.AuthorID)
	fmt.Fprintf(a.detail, "[yellow]Likes:[-] %d\n", item.LikesCount)
	if item.CreatedAt != "" {
		fmt.Fprintf(a.detail, "[yellow]Created:[-] %s\n", item.CreatedAt)
	}
	if len(item.Tags) > 0 {
		fmt.Fprintf(a.detail, "[yellow]Tags:[-] %s\n", strings.Join(item.TagNames(), ", "))
	}
	fmt.Fprintf(a.detail, "[yellow]Stocked:[-] %v  [yellow]Liked:[-] %v\n", item.Stocked, item.Liked)
}

func (a *App) currentItem() *models.Item {
	index := a.list.GetCurrentItem()
	if index < 0 || index >= len(a.items) {
		return nil
	}
	return &a.items[index]
}

func (a *App) toggleMark() {
	item := a.currentItem()
	if item == nil {
		return
	}
	if a.marked[item.ID] {
		delete(a.marked, item.ID)
	} else {
		a.marked[item.ID] = true
	}
	index := a.list.GetCurrentItem()
	a.list.SetItemText(index, a.mainText(*item), item.URL)
	a.updateStatus()
}

// confirmRemove asks before unstocking/unliking the marked items, or the
// current item when nothing is marked
func (a *App) confirmRemove() {
	ids := a.selectedIDs()
	if len(ids) == 0 {
		return
	}

	a.mode = ModeModal
	modal := tview.NewModal().
		SetText(fmt.Sprintf("Remove %d item(s) from your stocks/likes?", len(ids))).
		AddButtons([]string{"Remove", "Cancel"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			a.pages.RemovePage("confirm")
			a.mode = ModeNormal
			a.app.SetFocus(a.list)
			if buttonLabel == "Remove" {
				a.removeItems(ids)
			}
		})
	a.pages.AddPage("confirm", modal, true, true)
}

func (a *App) selectedIDs() []string {
	if len(a.marked) > 0 {
		var ids []string
		// preserve display order for a stable report
		for _, it := range a.items {
			if a.marked[it.ID] {
				ids = append(ids, it.ID)
			}
		}
		return ids
	}
	if item := a.currentItem(); item != nil {
		return []string{item.ID}
	}
	return nil
}

func (a *App) removeItems(ids []string) {
	report := a.svc.Remove(context.Background(), a.collection, ids)
	a.lastReport = &report
	a.marked = make(map[string]bool)
	a.reload()
}

func (a *App) updateStatus() {
	countText := fmt.Sprintf(" [::b]%d[::-] items", len(a.items))
	if len(a.marked) > 0 {
		countText += fmt.Sprintf(", [::b]%d[::-] marked", len(a.marked))
	}
	if a.lastReport != nil {
		failed := len(a.lastReport.Failures())
		if failed > 0 {
			countText += fmt.Sprintf("  [red]%d removal(s) failed[-]", failed)
		} else {
			countText += fmt.Sprintf("  [green]removed %d[-]", len(a.lastReport.Items))
		}
	}
	statusText := "[::b]/[::-] search  [::b]Space[::-] mark  [::b]d[::-] remove  [::b]q[::-] quit" + countText
	if a.mode == ModeSearch {
		statusText = "[::b]Enter[::-] apply  [::b]Esc[::-] clear" + countText
	}
	a.status.SetText(statusText)
}
