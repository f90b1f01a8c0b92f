package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/tmarsden/discograf/internal/services"
)

var _ list.Item = artistItem{}

// artistItem wraps [services.Artist] to implement [list.Item].
type artistItem struct {
	artist services.Artist
}

func (i artistItem) FilterValue() string { return i.artist.Name }
func (i artistItem) Title() string       { return i.artist.Name }
func (i artistItem) Description() string {
	return fmt.Sprintf("%d followers", i.artist.Followers)
}
