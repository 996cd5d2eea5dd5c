package main

import (
	"fmt"
	"time"

	blist "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/worktrunk/wt/internal/gitx"
)

var (
	selectTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	selectMainStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

type selectItem struct {
	worktree gitx.Worktree
	isMain   bool
	age      string
	subject  string
}

func (i selectItem) Title() string {
	name := i.worktree.Branch
	if name == "" {
		name = "(detached)"
	}
	if i.isMain {
		return selectMainStyle.Render(name + " ^")
	}
	return name
}

func (i selectItem) Description() string {
	desc := i.worktree.Path
	if i.age != "" {
		desc = fmt.Sprintf("%s · %s · %s", i.worktree.Path, i.age, i.subject)
	}
	return desc
}

func (i selectItem) FilterValue() string { return i.worktree.Branch + " " + i.worktree.Path }

type selectModel struct {
	list   blist.Model
	chosen *gitx.Worktree
}

func newSelectModel(worktrees []gitx.Worktree, meta map[string]gitx.CommitMeta, defaultBranch string) selectModel {
	items := make([]blist.Item, 0, len(worktrees))
	for _, wt := range worktrees {
		if wt.Bare {
			continue
		}
		item := selectItem{worktree: wt, isMain: wt.Branch == defaultBranch}
		if m, ok := meta[wt.Head]; ok {
			item.age = humanize.Time(time.Unix(m.Timestamp, 0))
			item.subject = m.Subject
		}
		items = append(items, item)
	}
	l := blist.New(items, blist.NewDefaultDelegate(), 0, 0)
	l.Title = "Worktrees"
	l.Styles.Title = selectTitleStyle
	l.SetShowStatusBar(false)
	return selectModel{list: l}
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-1)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(selectItem); ok {
				wt := item.worktree
				m.chosen = &wt
			}
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	return m.list.View()
}
