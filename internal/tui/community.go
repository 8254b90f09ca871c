package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/flowtrack/internal/store"
)

type communityModel struct {
	store    *store.Store
	userName string
	width    int
	height   int

	posts  []store.Post
	cursor int

	formActive bool
	form       *huh.Form

	formContent *string
}

func newCommunityModel(s *store.Store) communityModel {
	content := ""
	return communityModel{
		store:       s,
		formContent: &content,
	}
}

func (c *communityModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c *communityModel) setUser(name string) {
	c.userName = name
	c.cursor = 0
	c.posts = nil
}

type postsDataMsg struct {
	posts []store.Post
}

func (c communityModel) refresh() tea.Cmd {
	return func() tea.Msg {
		posts, _ := c.store.ListPosts()
		return postsDataMsg{posts: posts}
	}
}

func (c communityModel) update(msg tea.Msg) (communityModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case postsDataMsg:
		c.posts = msg.posts
		if c.cursor >= len(c.posts) {
			c.cursor = max(0, len(c.posts)-1)
		}
		return c, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if c.cursor > 0 {
				c.cursor--
			}
		case key.Matches(msg, keys.Down):
			if c.cursor < len(c.posts)-1 {
				c.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if len(c.posts) > 0 {
				c.store.LikePost(c.posts[c.cursor].ID)
				return c, c.refresh()
			}
		case key.Matches(msg, keys.New):
			return c.showPostForm()
		case key.Matches(msg, keys.Delete):
			// Only own posts can be removed.
			if len(c.posts) > 0 && c.posts[c.cursor].UserName == c.userName {
				c.store.DeletePost(c.posts[c.cursor].ID)
				return c, c.refresh()
			}
		}
	}
	return c, nil
}

func (c communityModel) showPostForm() (communityModel, tea.Cmd) {
	*c.formContent = ""

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("Share something").Value(c.formContent),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c communityModel) updateForm(msg tea.Msg) (communityModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		content := strings.TrimSpace(*c.formContent)
		if content != "" {
			c.store.CreatePost(c.userName, content)
		}
		return c, c.refresh()
	}

	return c, cmd
}

func (c communityModel) view() string {
	w := c.width - 4

	if c.formActive && c.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("New Post"), "", c.form.View(),
		)
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Community")

	if len(c.posts) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("Nothing here yet. Press n to post."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, post := range c.posts {
		cursor := "  "
		style := normalItemStyle
		if i == c.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		author := highlightStyle.Render(post.UserName)
		when := mutedStyle.Render(post.CreatedAt.Local().Format("Jan 02 15:04"))
		likes := mutedStyle.Render(fmt.Sprintf("♥ %d", post.Likes))
		rows = append(rows, fmt.Sprintf("%s%s  %s  %s", style.Render(cursor), author, when, likes))
		rows = append(rows, "    "+truncate(post.Content, w-8))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: post  enter: like  d: delete (own)"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
